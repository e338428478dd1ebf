package entity

import (
	"github.com/tsinghua-fib-lab/cacc-sim-oss/clock"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
)

// ITaskContext task.Context的依赖倒置，供各实体读取时钟与配置
type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
}
