package cycle

import (
	"math"

	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/randengine"
)

// Generate 生成密集/畅通交替的高速随机工况
// 功能：模拟拥堵时走走停停、畅通时快速行驶的高速公路工况
// 参数：c-生成参数，e-随机数引擎
// 返回：生成的工况
// 算法说明：
// 1. 每跨过一个整秒重新抽取交通状态（密集或畅通，各50%）
// 2. 按交通状态在对应区间内均匀抽取加速度
// 3. 速度按采样间隔积分，仅当结果仍在[0, 最高速度]内时更新
// 4. 时间保留3位小数，速度保留1位小数
func Generate(c config.Cycle, e *randengine.Engine) *Cycle {
	n := int(math.Ceil(c.Duration/c.Interval - 1e-9))
	points := make([]Point, 0, n)
	speed := 0.0
	dense := false
	for i := 0; i < n; i++ {
		t := round(float64(i)*c.Interval, 3)
		if int(t) != int(t-c.Interval) {
			dense = e.PTrue(0.5)
		}
		var a float64
		if dense {
			a = e.Uniform(c.DenseMinA, c.DenseMaxA)
		} else {
			a = e.Uniform(c.FastMinA, c.FastMaxA)
		}
		if next := speed + a*c.Interval; next >= 0 && next <= c.MaxSpeed {
			speed = next
		}
		speed = round(speed, 1)
		points = append(points, Point{T: t, Speed: speed})
	}
	log.Infof("generated cycle with %d points (%.0fs, max %.1fm/s)", len(points), c.Duration, c.MaxSpeed)
	return &Cycle{Interval: c.Interval, Points: points}
}

func round(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}
