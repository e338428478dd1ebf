package vehicle

import (
	"math"

	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
)

// gapEval 车距评估结果
type gapEval struct {
	minSafeDistance float64 // 最小安全距离（米）
	actualGap       float64 // 实际车距（米）
	gapError        float64 // 实际车距-最小安全距离，正值表示过远，负值表示过近
}

// MinSafeDistance 最小安全跟车距离
// 功能：根据前车速度计算最小可接受跟车距离
// 参数：leadSpeed-前车速度（米/秒）
// 返回：最小安全距离（米）
// 算法说明：
// 1. 速度换算为英里/小时
// 2. 非正速度按0处理（负数的分数次幂无定义）
// 3. d = 2.8 * v^0.45 + 8.0，零速度时为8米
func MinSafeDistance(leadSpeed float64) float64 {
	mph := math.Max(leadSpeed*mpsToMph, 0)
	return safeDistanceCoef*math.Pow(mph, safeDistanceExponent) + safeDistanceOffset
}

// evaluateGap 车距评估
// 功能：计算最小安全距离与实际车距的偏差
// 说明：前车速度与位置取自Lateral*字段，与本车沿车道方向的积分位置相减
func (l *Controller) evaluateGap(lead entity.LeadObservation) (e gapEval) {
	e.minSafeDistance = MinSafeDistance(lead.LateralVelocity)
	e.actualGap = lead.LateralPosition - l.position
	e.gapError = e.actualGap - e.minSafeDistance
	return
}
