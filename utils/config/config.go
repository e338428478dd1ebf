package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v2"
)

// 默认值
const (
	DefaultInterval            = 0.01
	DefaultSkipSteps           = 10
	DefaultAccelThreshold      = 0.67
	DefaultSpeedErrorThreshold = 0.1
	DefaultBatchSize           = 1000
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，所有缺省项已填充默认值
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// Parse 解析YAML配置
// 功能：严格模式解析配置文件内容，未知字段视为错误
func Parse(data []byte) (c Config, err error) {
	if err = yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// NewRuntimeConfig 根据配置初始化全局变量
// 功能：创建运行时配置对象，填充默认值并进行配置验证
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针，配置无效时返回error
// 算法说明：
// 1. 填充默认值：步长、随机工况参数、需求检查阈值、批量写入大小
// 2. 验证步长与总步数为正数
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	if config.Control.Step.Interval == 0 {
		config.Control.Step.Interval = DefaultInterval
	}
	cy := &config.Cycle
	if cy.Interval == 0 {
		cy.Interval = config.Control.Step.Interval
	}
	if cy.Duration == 0 {
		cy.Duration = 700
	}
	if cy.MaxSpeed == 0 {
		cy.MaxSpeed = 30
	}
	if cy.FastMinA == 0 && cy.FastMaxA == 0 {
		cy.FastMinA, cy.FastMaxA = 0, 10
	}
	if cy.DenseMinA == 0 && cy.DenseMaxA == 0 {
		cy.DenseMinA, cy.DenseMaxA = -10, 5
	}
	r := &config.Requirement
	if r.SkipSteps == 0 {
		r.SkipSteps = DefaultSkipSteps
	}
	if r.AccelThreshold == 0 {
		r.AccelThreshold = DefaultAccelThreshold
	}
	if r.SpeedErrorThreshold == 0 {
		r.SpeedErrorThreshold = DefaultSpeedErrorThreshold
	}
	if config.Output.BatchSize == 0 {
		config.Output.BatchSize = DefaultBatchSize
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RuntimeConfig{
		All: config,
		C:   config.Control,
	}, nil
}

// Validate 检查配置的一致性
func (c Config) Validate() error {
	var errs []error
	if c.Control.Step.Interval <= 0 {
		errs = append(errs, fmt.Errorf("control.step.interval must be positive, got %v", c.Control.Step.Interval))
	}
	if c.Control.Step.Total <= 0 {
		errs = append(errs, fmt.Errorf("control.step.total must be positive, got %v", c.Control.Step.Total))
	}
	if c.Control.Step.Start < 0 {
		errs = append(errs, fmt.Errorf("control.step.start must not be negative, got %v", c.Control.Step.Start))
	}
	if c.Cycle.Interval <= 0 || c.Cycle.Duration <= 0 || c.Cycle.MaxSpeed <= 0 {
		errs = append(errs, errors.New("cycle.interval, cycle.duration and cycle.max_speed must be positive"))
	}
	if c.Cycle.FastMinA > c.Cycle.FastMaxA || c.Cycle.DenseMinA > c.Cycle.DenseMaxA {
		errs = append(errs, errors.New("cycle acceleration ranges must satisfy min <= max"))
	}
	if c.Lead.Enabled && c.Lead.DisappearStep != 0 && c.Lead.DisappearStep <= c.Lead.AppearStep {
		errs = append(errs, fmt.Errorf("lead.disappear_step %d must be after lead.appear_step %d", c.Lead.DisappearStep, c.Lead.AppearStep))
	}
	if c.Output.URI != "" && c.Output.DB == "" {
		errs = append(errs, errors.New("output.db is required when output.uri is set"))
	}
	if c.Input.Cycle != nil && c.Input.Cycle.File == "" && c.Input.URI == "" && !c.Input.Cycle.OnlyCache {
		errs = append(errs, errors.New("input.uri is required to download input.cycle from MongoDB"))
	}
	return errors.Join(errs...)
}
