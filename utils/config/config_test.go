package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
)

const sample = `
control:
  step:
    start: 0
    total: 6000
  set_speed: 25
lead:
  enabled: true
  initial_gap: 50
  speed: 13.4112
input:
  cycle:
    db: cycles
    col: highway
    only_cache: true
`

func TestParseAndDefaults(t *testing.T) {
	c, err := config.Parse([]byte(sample))
	require.NoError(t, err)
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultInterval, rc.C.Step.Interval)
	assert.Equal(t, int32(6000), rc.C.Step.Total)
	assert.Equal(t, 25.0, rc.C.SetSpeed)
	assert.Equal(t, config.DefaultInterval, rc.All.Cycle.Interval)
	assert.Equal(t, 700.0, rc.All.Cycle.Duration)
	assert.Equal(t, 30.0, rc.All.Cycle.MaxSpeed)
	assert.Equal(t, -10.0, rc.All.Cycle.DenseMinA)
	assert.Equal(t, 10.0, rc.All.Cycle.FastMaxA)
	assert.Equal(t, config.DefaultSkipSteps, rc.All.Requirement.SkipSteps)
	assert.Equal(t, config.DefaultAccelThreshold, rc.All.Requirement.AccelThreshold)
	assert.Equal(t, config.DefaultBatchSize, rc.All.Output.BatchSize)
	assert.Equal(t, "cycles.highway.csv", rc.All.Input.Cycle.GetCachePath())
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := config.Parse([]byte("control:\n  stepp: {}\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		c    config.Config
	}{
		{"zero total", config.Config{}},
		{"negative interval", config.Config{Control: config.Control{Step: config.ControlStep{Total: 1, Interval: -1}}}},
		{"lead window", config.Config{
			Control: config.Control{Step: config.ControlStep{Total: 1}},
			Lead:    config.Lead{Enabled: true, AppearStep: 10, DisappearStep: 5},
		}},
		{"output without db", config.Config{
			Control: config.Control{Step: config.ControlStep{Total: 1}},
			Output:  config.OutputPath{URI: "mongodb://localhost"},
		}},
		{"cycle without uri", config.Config{
			Control: config.Control{Step: config.ControlStep{Total: 1}},
			Input:   config.Input{Cycle: &config.InputPath{DB: "a", Col: "b"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.NewRuntimeConfig(tc.c)
			assert.Error(t, err)
		})
	}
}
