package lead

import (
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
)

var log = logrus.WithField("module", "lead")

// Lead 脚本化前车
// 功能：以恒定速度沿车道行驶的前车，仅在[appear, disappear)步范围内可见
// 说明：沿车道方向的运动写入观测的Lateral*字段，与宿主仿真器的坐标约定一致
type Lead struct {
	ctx entity.ITaskContext

	enabled   bool
	s         float64 // 沿车道方向位置（米）
	v         float64 // 速度（米/秒）
	appear    int32
	disappear int32 // 0表示不消失
}

// New 根据任务配置创建前车
func New(ctx entity.ITaskContext) *Lead {
	c := ctx.RuntimeConfig().All.Lead
	if c.Enabled {
		log.Infof("lead vehicle at %vm with %vm/s in steps [%d, %d)", c.InitialGap, c.Speed, c.AppearStep, c.DisappearStep)
	}
	return &Lead{
		ctx:       ctx,
		enabled:   c.Enabled,
		s:         c.InitialGap,
		v:         c.Speed,
		appear:    c.AppearStep,
		disappear: c.DisappearStep,
	}
}

// visible 判断指定步前车是否存在
func (l *Lead) visible(step int32) bool {
	if !l.enabled || step < l.appear {
		return false
	}
	return l.disappear == 0 || step < l.disappear
}

// Observe 获取当前步的前车观测
func (l *Lead) Observe() entity.LeadObservation {
	if !l.visible(l.ctx.Clock().InternalStep) {
		return entity.NoLead
	}
	return entity.LeadObservation{
		Exists:          true,
		LateralPosition: l.s,
		LateralVelocity: l.v,
	}
}

// Update 按时钟步长积分位置
// 说明：前车不可见时同样继续行驶
func (l *Lead) Update() {
	l.s += l.v * l.ctx.Clock().DT
}

// S 前车当前位置
func (l *Lead) S() float64 {
	return l.s
}
