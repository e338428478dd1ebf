// 逐步记录输出，支持内存、CSV文件与MongoDB
package output

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "output")

// Record 每个仿真步的记录
type Record struct {
	Step     int32   `bson:"step"`
	T        float64 `bson:"t"`
	SetSpeed float64 `bson:"set_speed"` // 设定速度（米/秒）
	CavOn    bool    `bson:"cav_enable"`

	EgoSpeed    float64 `bson:"ego_speed"`    // 本车速度（米/秒）
	EgoAccel    float64 `bson:"ego_accel"`    // 本车加速度（米/秒²），由相邻两步速度差分得到
	EgoPosition float64 `bson:"ego_position"` // 本车累计位置（米）

	LeadExists bool    `bson:"lead_exists"`
	LeadX      float64 `bson:"lead_x"`
	LeadVX     float64 `bson:"lead_vx"`
	LeadY      float64 `bson:"lead_y"`
	LeadVY     float64 `bson:"lead_vy"`

	Torque          float64 `bson:"torque"`
	Brake           float64 `bson:"brake"`
	Mode            string  `bson:"mode"`
	MinSafeDistance float64 `bson:"min_safe_distance"`
	Gap             float64 `bson:"gap"`
	GapError        float64 `bson:"gap_error"`
}

// Sink 记录输出目标
type Sink interface {
	Write(r Record) error
	Close() error
}

// MemorySink 内存输出，用于测试与需求检查
type MemorySink struct {
	Records []Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(r Record) error {
	s.Records = append(s.Records, r)
	return nil
}

func (s *MemorySink) Close() error {
	return nil
}

// MultiSink 同时写入多个输出目标
type MultiSink []Sink

func (m MultiSink) Write(r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
