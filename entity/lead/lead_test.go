package lead_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/clock"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity/lead"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
)

type taskContext struct {
	clock *clock.Clock
	rc    *config.RuntimeConfig
}

func (c *taskContext) Clock() *clock.Clock { return c.clock }
func (c *taskContext) RuntimeConfig() *config.RuntimeConfig { return c.rc }

func newTaskContext(t *testing.T, l config.Lead) *taskContext {
	rc, err := config.NewRuntimeConfig(config.Config{
		Control: config.Control{Step: config.ControlStep{Total: 1_000_000}},
		Lead:    l,
	})
	require.NoError(t, err)
	return &taskContext{clock: clock.New(rc.C.Step), rc: rc}
}

func TestLeadWindow(t *testing.T) {
	ctx := newTaskContext(t, config.Lead{Enabled: true, InitialGap: 50, Speed: 10, AppearStep: 5, DisappearStep: 8})
	l := lead.New(ctx)
	observe := func(step int32) entity.LeadObservation {
		ctx.clock.InternalStep = step
		return l.Observe()
	}
	assert.Equal(t, entity.NoLead, observe(4))
	o := observe(5)
	assert.True(t, o.Exists)
	assert.Equal(t, 50.0, o.LateralPosition)
	assert.Equal(t, 10.0, o.LateralVelocity)
	assert.Equal(t, 0.0, o.LongitudinalPosition)
	assert.True(t, observe(7).Exists)
	assert.False(t, observe(8).Exists)
}

func TestLeadUpdate(t *testing.T) {
	ctx := newTaskContext(t, config.Lead{Enabled: true, InitialGap: 50, Speed: 10})
	l := lead.New(ctx)
	for i := 0; i < 100; i++ {
		l.Update()
		ctx.clock.Next()
	}
	assert.InDelta(t, 60, l.S(), 1e-9)
	assert.True(t, l.Observe().Exists)
	assert.InDelta(t, 60, l.Observe().LateralPosition, 1e-9)
}

func TestLeadDisabled(t *testing.T) {
	l := lead.New(newTaskContext(t, config.Lead{InitialGap: 50, Speed: 10}))
	assert.False(t, l.Observe().Exists)
}
