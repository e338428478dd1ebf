package vehicle

import (
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
)

const (
	// DefaultTickInterval 控制步长（秒）
	DefaultTickInterval = 0.01

	mpsToMph = 2.23694 // 米/秒 -> 英里/小时

	// 最小安全距离模型：2.8 * v_mph^0.45 + 8.0
	safeDistanceCoef     = 2.8
	safeDistanceExponent = 0.45
	safeDistanceOffset   = 8.0

	deadbandRatio    = 0.05   // 死区：最小安全距离的5%
	proportionalGain = 500    // 扭矩/米
	maxTorque        = 5000.0 // 扭矩上限（牛·米）
	brakeDivisor     = 3000.0 // 负扭矩换算为制动减速度的除数
	maxBrake         = 10.0   // 制动减速度上限（米/秒²）
	fallbackTorque   = 5000.0 // 无前车时的驱动扭矩
)

// Controller 协同自适应巡航（CACC）车距控制器
// 功能：每个仿真步根据本车速度与前车观测输出驱动扭矩与制动减速度
// 说明：一个实例对应一辆车，仅由单一调用方同步调用，不做并发保护；
// 跨步保留的状态只有积分得到的本车位置
type Controller struct {
	dt       float64 // 时间步长，构造后不变
	position float64 // 本车沿车道方向的累计位置（米）
}

// New 使用默认步长创建控制器
func New() *Controller {
	return NewWithInterval(DefaultTickInterval)
}

// NewWithInterval 创建指定步长的控制器
// 参数：dt-时间步长（秒）
func NewWithInterval(dt float64) *Controller {
	return &Controller{dt: dt}
}

// Interval 获取时间步长
func (l *Controller) Interval() float64 {
	return l.dt
}

// Position 获取本车累计位置（米）
func (l *Controller) Position() float64 {
	return l.position
}

// Reset 将累计位置清零
func (l *Controller) Reset() {
	l.position = 0
}

// Advance 位置积分
// 功能：position += egoSpeed * dt，不做边界检查
// 说明：速度为负时位置会减小
func (l *Controller) Advance(egoSpeed float64) {
	l.position += egoSpeed * l.dt
}

// Command 根据当前状态计算执行器指令
// 功能：纵向决策，不修改控制器状态，相同输入重复调用结果相同
// 参数：setSpeed-设定速度（当前控制律未使用），lead-前车观测
// 返回：ac-执行器指令与诊断量
// 算法说明：
// 1. 无前车：全驱动巡航
// 2. 有前车：计算最小安全距离与车距误差，经死区与比例调节映射为扭矩或制动
func (l *Controller) Command(setSpeed float64, lead entity.LeadObservation) (ac Action) {
	if !lead.Exists {
		ac = l.policyCruise()
	} else {
		ac = l.policyGap(l.evaluateGap(lead))
	}
	ac.Position = l.position
	return
}

// Step 每个仿真步调用一次
// 功能：先积分本车位置，再计算执行器指令
// 参数：setSpeed-设定速度，egoSpeed-本车速度（米/秒），lead-前车观测
// 返回：ac-执行器指令与诊断量
func (l *Controller) Step(setSpeed, egoSpeed float64, lead entity.LeadObservation) (ac Action) {
	l.Advance(egoSpeed)
	ac = l.Command(setSpeed, lead)
	log.Tracef("lead=%v %v", lead, ac)
	return
}
