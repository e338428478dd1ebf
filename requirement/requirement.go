// 对逐步记录进行需求检查：最小跟车距离与稳态速度误差
package requirement

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/output"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
)

const (
	MinFollowingDistance = "minimum_following_distance"
	SpeedError           = "speed_error"
)

// Violation 一次需求违反
type Violation struct {
	Step   int32
	T      float64
	Actual float64 // 实际值（跟车距离或相对速度误差）
	Limit  float64 // 需求限值
}

// Result 单项需求的检查结果
type Result struct {
	Name       string
	Checked    int // 参与检查的步数
	Violations []Violation
}

// Passed 是否通过
func (r Result) Passed() bool {
	return len(r.Violations) == 0
}

// String 生成检查结果的表格形式
func (r Result) String() string {
	var b strings.Builder
	if r.Passed() {
		fmt.Fprintf(&b, "%s: passed (%d steps checked)", r.Name, r.Checked)
		return b.String()
	}
	fmt.Fprintf(&b, "%s: %d/%d steps failed\n", r.Name, len(r.Violations), r.Checked)
	fmt.Fprintf(&b, "%10s %12s %12s", "time", "actual", "limit")
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "\n%10.2f %12.4f %12.4f", v.T, v.Actual, v.Limit)
	}
	return b.String()
}

// CheckMinFollowingDistance 最小跟车距离需求
// 功能：任何时刻前车与本车沿车道方向的距离都不得小于最小安全距离
// 参数：records-逐步记录，skip-忽略开头的步数（初始化阶段）
// 算法说明：
// 1. 只检查存在前车的步
// 2. 跟车距离 = 前车位置 - 本车位置
// 3. 最小安全距离 = 2.8 * (前车速度mph)^0.45 + 8
func CheckMinFollowingDistance(records []output.Record, skip int) Result {
	res := Result{Name: MinFollowingDistance}
	for _, r := range lo.Drop(records, skip) {
		if !r.LeadExists {
			continue
		}
		res.Checked++
		distance := r.LeadY - r.EgoPosition
		need := vehicle.MinSafeDistance(r.LeadVY)
		if distance < need {
			res.Violations = append(res.Violations, Violation{
				Step: r.Step, T: r.T, Actual: distance, Limit: need,
			})
		}
	}
	return res
}

// CheckSpeedError 稳态速度误差需求
// 功能：稳态下本车速度与设定速度的相对误差不得超过阈值
// 参数：records-逐步记录，skip-忽略开头的步数，accelThreshold-稳态加速度阈值，errThreshold-相对误差阈值
// 算法说明：
// 1. 稳态：|加速度| <= accelThreshold，未制动，CACC开启
// 2. 相对误差 = |设定速度 - 本车速度| / 设定速度，设定速度为0的步不检查
func CheckSpeedError(records []output.Record, skip int, accelThreshold, errThreshold float64) Result {
	res := Result{Name: SpeedError}
	for _, r := range lo.Drop(records, skip) {
		steady := math.Abs(r.EgoAccel) <= accelThreshold && r.Brake == 0 && r.CavOn
		if !steady || r.SetSpeed == 0 {
			continue
		}
		res.Checked++
		relErr := math.Abs((r.SetSpeed - r.EgoSpeed) / r.SetSpeed)
		if relErr > errThreshold {
			res.Violations = append(res.Violations, Violation{
				Step: r.Step, T: r.T, Actual: relErr, Limit: errThreshold,
			})
		}
	}
	return res
}

// Check 执行全部需求检查
func Check(records []output.Record, c config.Requirement) []Result {
	return []Result{
		CheckMinFollowingDistance(records, c.SkipSteps),
		CheckSpeedError(records, c.SkipSteps, c.AccelThreshold, c.SpeedErrorThreshold),
	}
}
