package vehicle

import (
	"fmt"

	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
)

// Mode 控制模式
// 说明：每步仅由调节器输出符号决定，不跨步锁存
type Mode int

const (
	ModeCruising     Mode = iota // 无前车，全驱动巡航
	ModeAccelerating             // 扭矩生效（含零误差保持）
	ModeBraking                  // 制动生效
)

func (m Mode) String() string {
	switch m {
	case ModeCruising:
		return "CRUISING"
	case ModeAccelerating:
		return "ACCELERATING"
	case ModeBraking:
		return "BRAKING"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Action 车辆动作结构体
// 功能：描述控制器一步的输出，包括执行器指令与诊断量
type Action struct {
	entity.ActuatorCommand

	Mode            Mode    // 控制模式
	Position        float64 // 计算指令时的本车累计位置（米）
	MinSafeDistance float64 // 最小安全距离（米），无前车时为0
	ActualGap       float64 // 实际车距（米），无前车时为0
	GapError        float64 // 死区处理后的车距误差（米）
}

func (a Action) String() string {
	return fmt.Sprintf(
		"Action{mode=%v, torque=%v, brake=%v, pos=%v, minSafe=%v, gap=%v, err=%v}",
		a.Mode, a.Torque, a.Brake, a.Position, a.MinSafeDistance, a.ActualGap, a.GapError,
	)
}
