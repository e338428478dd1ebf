// 本车工况曲线（drive cycle），按固定间隔采样的时间-速度序列
package cycle

import (
	"errors"
	"math"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "cycle")

// ErrEmpty 空工况
var ErrEmpty = errors.New("cycle: no points")

// Point 工况采样点
type Point struct {
	T     float64 `bson:"t"`     // 时间（秒）
	Speed float64 `bson:"speed"` // 速度（米/秒）
}

// Cycle 工况曲线
type Cycle struct {
	Interval float64 // 采样间隔（秒）
	Points   []Point
}

// New 创建工况并检查采样间隔
func New(interval float64, points []Point) (*Cycle, error) {
	if len(points) == 0 {
		return nil, ErrEmpty
	}
	if interval <= 0 {
		return nil, errors.New("cycle: interval must be positive")
	}
	return &Cycle{Interval: interval, Points: points}, nil
}

// Len 采样点数量
func (c *Cycle) Len() int {
	return len(c.Points)
}

// Duration 工况时长（秒）
func (c *Cycle) Duration() float64 {
	return c.Points[len(c.Points)-1].T
}

// SpeedAt 获取t时刻的速度
// 功能：按最近的采样点取值，超出范围时保持首/末值
func (c *Cycle) SpeedAt(t float64) float64 {
	i := int(math.Round(t / c.Interval))
	i = lo.Clamp(i, 0, len(c.Points)-1)
	return c.Points[i].Speed
}

// Speeds 全部速度值
func (c *Cycle) Speeds() []float64 {
	return lo.Map(c.Points, func(p Point, _ int) float64 {
		return p.Speed
	})
}

// MaxSpeed 工况最高速度
func (c *Cycle) MaxSpeed() float64 {
	return lo.Max(c.Speeds())
}
