package entity

import "fmt"

// LeadObservation 前车观测
// 功能：宿主仿真器每步传入的前车状态，控制器不持有
// 说明：Exists为false时其余字段约定为0，但控制器不读取它们
// 坐标约定：沿车道方向的运动位于Lateral*字段（宿主仿真器的Y轴）
type LeadObservation struct {
	Exists               bool    `json:"exists" bson:"exists"`                               // 是否存在前车
	LongitudinalPosition float64 `json:"longitudinal_position" bson:"longitudinal_position"` // X坐标（米）
	LongitudinalVelocity float64 `json:"longitudinal_velocity" bson:"longitudinal_velocity"` // X方向速度（米/秒）
	LateralPosition      float64 `json:"lateral_position" bson:"lateral_position"`           // Y坐标（米）
	LateralVelocity      float64 `json:"lateral_velocity" bson:"lateral_velocity"`           // Y方向速度（米/秒）
}

// NoLead 不存在前车时的观测值
var NoLead = LeadObservation{}

func (o LeadObservation) String() string {
	if !o.Exists {
		return "Lead{none}"
	}
	return fmt.Sprintf(
		"Lead{x=%v, vx=%v, y=%v, vy=%v}",
		o.LongitudinalPosition, o.LongitudinalVelocity, o.LateralPosition, o.LateralVelocity,
	)
}

// ActuatorCommand 执行器指令
// 功能：每步输出的驱动扭矩与制动减速度，由宿主仿真器立即消费
type ActuatorCommand struct {
	Torque float64 `json:"torque" bson:"torque"` // 驱动扭矩（牛·米），范围[0, 5000]
	Brake  float64 `json:"brake" bson:"brake"`   // 制动减速度（米/秒²），范围[0, 10]
}

func (c ActuatorCommand) String() string {
	return fmt.Sprintf("Command{torque=%v, brake=%v}", c.Torque, c.Brake)
}
