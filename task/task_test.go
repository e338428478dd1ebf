package task_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/clock"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/cycle"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/output"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/task"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/input"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/rpcutil"
)

func newContext(t *testing.T, total int32, lead config.Lead, sink output.Sink) *task.Context {
	rc, err := config.NewRuntimeConfig(config.Config{
		Control: config.Control{
			Step:     config.ControlStep{Total: total},
			SetSpeed: 10,
		},
		Lead: lead,
	})
	require.NoError(t, err)
	points := make([]cycle.Point, total)
	for i := range points {
		points[i] = cycle.Point{T: float64(i) * 0.01, Speed: 10}
	}
	c, err := cycle.New(0.01, points)
	require.NoError(t, err)
	return task.NewContext("test", rc, &input.Input{Cycle: c}, sink)
}

func TestRunReplay(t *testing.T) {
	extra := output.NewMemorySink()
	ctx := newContext(t, 500, config.Lead{Enabled: true, InitialGap: 60, Speed: 10, AppearStep: 100}, extra)
	require.NoError(t, ctx.Run(context.Background()))

	records := ctx.Records()
	require.Len(t, records, 500)
	assert.Equal(t, records, extra.Records)

	first := records[0]
	assert.Equal(t, int32(0), first.Step)
	assert.InDelta(t, 0.1, first.EgoPosition, 1e-9)
	assert.False(t, first.LeadExists)
	assert.Equal(t, 5000.0, first.Torque)
	assert.Equal(t, "CRUISING", first.Mode)

	// 前车不可见时也在行驶：出现时已行驶100步（10m），位于70m；本车积分101步，位于10.1m
	assert.False(t, records[99].LeadExists)
	r := records[100]
	assert.True(t, r.LeadExists)
	assert.InDelta(t, 70, r.LeadY, 1e-6)
	assert.InDelta(t, 10.1, r.EgoPosition, 1e-6)
	assert.InDelta(t, 59.9, r.Gap, 1e-6)
	assert.InDelta(t, 59.9-vehicle.MinSafeDistance(10), r.GapError, 1e-6)
	assert.Equal(t, 5000.0, r.Torque)

	for _, r := range records {
		assert.False(t, r.Torque != 0 && r.Brake != 0)
		assert.Equal(t, 0.0, r.EgoAccel)
	}

	results := ctx.Results()
	require.Len(t, results, 2)
	for _, res := range results {
		assert.True(t, res.Passed(), res.String())
	}
}

func TestRunDetectsTooCloseLead(t *testing.T) {
	ctx := newContext(t, 50, config.Lead{Enabled: true, InitialGap: 5, Speed: 0}, nil)
	require.NoError(t, ctx.Run(context.Background()))
	for _, r := range ctx.Records() {
		assert.Equal(t, 0.0, r.Torque)
		assert.Greater(t, r.Brake, 0.0)
		assert.Equal(t, "BRAKING", r.Mode)
	}
	assert.False(t, ctx.Results()[0].Passed())
}

func TestRunCancel(t *testing.T) {
	ctx := newContext(t, 100, config.Lead{}, nil)
	c, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ctx.Run(c), context.Canceled)
	assert.Empty(t, ctx.Records())

	ctx = newContext(t, 100, config.Lead{}, nil)
	ctx.Stop()
	assert.NoError(t, ctx.Run(context.Background()))
	assert.Empty(t, ctx.Records())
}

func TestRegister(t *testing.T) {
	ctx := newContext(t, 10, config.Lead{}, nil)
	require.NoError(t, ctx.Run(context.Background()))

	mux := http.NewServeMux()
	ctx.Register(mux, rpcutil.HandlerOptions()...)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	now := connect.NewClient[clock.NowRequest, clock.NowResponse](
		srv.Client(), srv.URL+clock.ClockServiceNowProcedure, rpcutil.ClientOptions()...,
	)
	res, err := now.CallUnary(context.Background(), connect.NewRequest(&clock.NowRequest{}))
	require.NoError(t, err)
	assert.Equal(t, int32(10), res.Msg.Step)
	assert.InDelta(t, 0.1, res.Msg.T, 1e-9)

	pos, err := ctx.VehicleManager().Position(0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pos, 1e-9)
}
