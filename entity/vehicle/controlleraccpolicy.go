package vehicle

import (
	"math"

	"github.com/samber/lo"
)

// policyCruise 策略1：无前车巡航
// 功能：跳过车距评估与调节，输出固定的全驱动指令
// 说明：与设定速度、本车速度无关
func (l *Controller) policyCruise() (ac Action) {
	ac.Mode = ModeCruising
	ac.Torque = fallbackTorque
	return
}

// policyGap 策略2：车距调节
// 功能：将车距误差转换为扭矩或制动指令
// 参数：e-车距评估结果
// 返回：ac-执行器指令
// 算法说明：
// 1. 死区：|误差| <= 5%最小安全距离时误差置0，避免设定点附近振荡
// 2. 比例控制：扭矩 = 500 * 误差
// 3. 扭矩非负：驱动，限幅5000；扭矩为负：制动 = -扭矩/3000，限幅10
// 说明：扭矩与制动互斥，同一步不会同时非零
func (l *Controller) policyGap(e gapEval) (ac Action) {
	ac.MinSafeDistance = e.minSafeDistance
	ac.ActualGap = e.actualGap
	gapError := e.gapError
	if math.Abs(gapError) <= deadbandRatio*e.minSafeDistance {
		gapError = 0
	}
	ac.GapError = gapError

	torque := proportionalGain * gapError
	if torque >= 0 {
		ac.Mode = ModeAccelerating
		ac.Torque = lo.Clamp(torque, 0, maxTorque)
	} else {
		ac.Mode = ModeBraking
		ac.Brake = lo.Clamp(-torque/brakeDivisor, 0, maxBrake)
	}
	return
}
