package vehicle_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity/vehicle"
)

func lead(y, vy float64) entity.LeadObservation {
	return entity.LeadObservation{Exists: true, LateralPosition: y, LateralVelocity: vy}
}

func TestNoLeadFullDrive(t *testing.T) {
	c := vehicle.New()
	for _, v := range []float64{0, 20, 35.5, -3} {
		for _, set := range []float64{0, 25, 100} {
			ac := c.Step(set, v, entity.NoLead)
			assert.Equal(t, entity.ActuatorCommand{Torque: 5000, Brake: 0}, ac.ActuatorCommand)
			assert.Equal(t, vehicle.ModeCruising, ac.Mode)
		}
	}
}

func TestNoLeadIgnoresNumericFields(t *testing.T) {
	c := vehicle.New()
	ac := c.Step(0, 20, entity.LeadObservation{Exists: false, LateralPosition: 1, LateralVelocity: 50})
	assert.Equal(t, 5000.0, ac.Torque)
	assert.Equal(t, 0.0, ac.Brake)
}

func TestPositionIntegration(t *testing.T) {
	c := vehicle.New()
	assert.Equal(t, 0.0, c.Position())
	ac := c.Step(0, 20, entity.NoLead)
	assert.InDelta(t, 0.2, c.Position(), 1e-12)
	assert.Equal(t, c.Position(), ac.Position)
	ac = c.Step(0, 20, lead(100, 10))
	assert.InDelta(t, 0.4, c.Position(), 1e-12)
	assert.Equal(t, c.Position(), ac.Position)
	// 负速度使位置减小
	c.Step(0, -10, entity.NoLead)
	assert.InDelta(t, 0.3, c.Position(), 1e-12)

	c.Reset()
	assert.Equal(t, 0.0, c.Position())
}

func TestPositionFeedsNextGap(t *testing.T) {
	c := vehicle.New()
	c.Step(0, 20, entity.NoLead)
	ac := c.Command(0, lead(50, 0))
	assert.InDelta(t, 50-0.2, ac.ActualGap, 1e-12)
}

func TestMinSafeDistance(t *testing.T) {
	assert.Equal(t, 8.0, vehicle.MinSafeDistance(0))
	assert.InDelta(t, 20.9379, vehicle.MinSafeDistance(13.4112), 1e-3)
	// 非正速度按0处理
	assert.Equal(t, 8.0, vehicle.MinSafeDistance(-5))
	assert.False(t, math.IsNaN(vehicle.MinSafeDistance(-5)))
	assert.Less(t, vehicle.MinSafeDistance(10), vehicle.MinSafeDistance(20))
}

func TestExcessGapSaturatesTorque(t *testing.T) {
	c := vehicle.New()
	ac := c.Step(0, 0, lead(50, 13.4112))
	assert.InDelta(t, 20.9379, ac.MinSafeDistance, 1e-3)
	assert.InDelta(t, 29.0621, ac.GapError, 1e-3)
	assert.Equal(t, 5000.0, ac.Torque)
	assert.Equal(t, 0.0, ac.Brake)
	assert.Equal(t, vehicle.ModeAccelerating, ac.Mode)
}

func TestDeficitGapBrakes(t *testing.T) {
	c := vehicle.New()
	ac := c.Step(0, 0, lead(10, 13.4112))
	assert.InDelta(t, -10.9379, ac.GapError, 1e-3)
	assert.Equal(t, 0.0, ac.Torque)
	assert.InDelta(t, 1.82298, ac.Brake, 1e-4)
	assert.Equal(t, vehicle.ModeBraking, ac.Mode)
}

func TestBrakeSaturates(t *testing.T) {
	c := vehicle.New()
	ac := c.Step(0, 0, lead(-100, 30))
	assert.Equal(t, 0.0, ac.Torque)
	assert.Equal(t, 10.0, ac.Brake)
}

func TestDeadband(t *testing.T) {
	minSafe := vehicle.MinSafeDistance(10)
	for _, ratio := range []float64{0.96, 0.999, 1, 1.01, 1.049} {
		c := vehicle.New()
		ac := c.Command(0, lead(minSafe*ratio, 10))
		assert.Equal(t, 0.0, ac.GapError, "ratio %v", ratio)
		assert.Equal(t, entity.ActuatorCommand{}, ac.ActuatorCommand, "ratio %v", ratio)
		assert.Equal(t, vehicle.ModeAccelerating, ac.Mode)
	}
	// 死区外
	c := vehicle.New()
	ac := c.Command(0, lead(minSafe*1.06, 10))
	assert.Greater(t, ac.Torque, 0.0)
	ac = c.Command(0, lead(minSafe*0.94, 10))
	assert.Greater(t, ac.Brake, 0.0)
}

func TestCommandRangesAndExclusion(t *testing.T) {
	c := vehicle.New()
	for y := -200.0; y <= 400; y += 0.7 {
		for _, vy := range []float64{-10, 0, 5, 13.4112, 40} {
			ac := c.Command(25, lead(y, vy))
			require.GreaterOrEqual(t, ac.Torque, 0.0)
			require.LessOrEqual(t, ac.Torque, 5000.0)
			require.GreaterOrEqual(t, ac.Brake, 0.0)
			require.LessOrEqual(t, ac.Brake, 10.0)
			require.False(t, ac.Torque != 0 && ac.Brake != 0, "y=%v vy=%v %v", y, vy, ac)
		}
	}
}

func TestMonotonicInLeadPosition(t *testing.T) {
	c := vehicle.New()
	minSafe := vehicle.MinSafeDistance(10)

	// 死区之外，车距增大时扭矩严格增大直至上限
	prev := c.Command(0, lead(minSafe*1.06, 10)).Torque
	for y := minSafe*1.06 + 0.5; ; y += 0.5 {
		cur := c.Command(0, lead(y, 10)).Torque
		if prev == 5000 {
			assert.Equal(t, 5000.0, cur)
			break
		}
		assert.Greater(t, cur, prev, "y=%v", y)
		prev = cur
	}

	// 车距减小时制动严格增大直至上限
	prev = c.Command(0, lead(minSafe*0.94, 10)).Brake
	for y := minSafe*0.94 - 0.5; ; y -= 0.5 {
		cur := c.Command(0, lead(y, 10)).Brake
		if prev == 10 {
			assert.Equal(t, 10.0, cur)
			break
		}
		assert.Greater(t, cur, prev, "y=%v", y)
		prev = cur
	}
}

func TestCommandIsIdempotent(t *testing.T) {
	c := vehicle.New()
	c.Step(0, 15, entity.NoLead)
	l := lead(30, 12)
	a := c.Command(20, l)
	b := c.Command(20, l)
	assert.Equal(t, a, b)
	assert.InDelta(t, 0.15, c.Position(), 1e-12)
}

func TestCustomInterval(t *testing.T) {
	c := vehicle.NewWithInterval(0.1)
	assert.Equal(t, 0.1, c.Interval())
	c.Step(0, 20, entity.NoLead)
	assert.InDelta(t, 2.0, c.Position(), 1e-12)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "CRUISING", vehicle.ModeCruising.String())
	assert.Equal(t, "ACCELERATING", vehicle.ModeAccelerating.String())
	assert.Equal(t, "BRAKING", vehicle.ModeBraking.String())
	assert.Equal(t, "Mode(7)", vehicle.Mode(7).String())
}
