package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：支持MongoDB数据库和文件系统两种数据源，支持缓存机制
type InputPath struct {
	DB        string `yaml:"db"`                   // 数据库名
	Col       string `yaml:"col"`                  // 集合名
	Cache     string `yaml:"cache,omitempty"`      // 缓存文件名，为空则采用默认路径{db}.{col}.csv
	OnlyCache bool   `yaml:"only_cache,omitempty"` // 只从缓存中获取
	File      string `yaml:"file,omitempty"`       // 文件路径（优先级高于MongoDB）
}

// GetCachePath 获取缓存文件路径
// 功能：返回缓存文件名
// 算法说明：
// 1. 如果指定了缓存路径，直接返回
// 2. 否则使用默认命名规则：{数据库名}.{集合名}.csv
func (p InputPath) GetCachePath() string {
	if p.Cache != "" {
		return p.Cache
	}
	return p.DB + "." + p.Col + ".csv"
}

// Input 指定模拟器所有输入数据的配置项
// 功能：定义本车工况曲线（drive cycle）的输入来源
// 说明：Cycle为空时使用Generate生成的随机工况
type Input struct {
	URI   string     `yaml:"uri,omitempty"`   // MongoDB连接字符串
	Cycle *InputPath `yaml:"cycle,omitempty"` // 本车工况曲线
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔
}

// Control 模拟器控制配置
type Control struct {
	Step     ControlStep `yaml:"step"`
	SetSpeed float64     `yaml:"set_speed"`         // 巡航设定速度（米/秒）
	Vehicle  int32       `yaml:"vehicle,omitempty"` // 本车ID
}

// Lead 脚本化前车配置
// 功能：描述一辆匀速行驶的前车
// 说明：前车在[AppearStep, DisappearStep)范围内存在，DisappearStep为0表示不消失
type Lead struct {
	Enabled       bool    `yaml:"enabled"`
	InitialGap    float64 `yaml:"initial_gap"`              // 初始时前车沿车道方向位置（米）
	Speed         float64 `yaml:"speed"`                    // 前车速度（米/秒）
	AppearStep    int32   `yaml:"appear_step,omitempty"`    // 出现步
	DisappearStep int32   `yaml:"disappear_step,omitempty"` // 消失步
}

// Cycle 随机工况生成配置
// 功能：定义密集/畅通交通交替的高速工况生成参数
type Cycle struct {
	Seed      uint64  `yaml:"seed"`
	Duration  float64 `yaml:"duration"`   // 时长（秒）
	Interval  float64 `yaml:"interval"`   // 采样间隔（秒）
	MaxSpeed  float64 `yaml:"max_speed"`  // 最高速度（米/秒）
	FastMinA  float64 `yaml:"fast_min_a"` // 畅通时加速度下限
	FastMaxA  float64 `yaml:"fast_max_a"` // 畅通时加速度上限
	DenseMinA float64 `yaml:"dense_min_a"`
	DenseMaxA float64 `yaml:"dense_max_a"`
}

// OutputPath 逐步记录的输出配置
type OutputPath struct {
	File      string `yaml:"file,omitempty"`       // CSV文件路径
	URI       string `yaml:"uri,omitempty"`        // MongoDB连接字符串
	DB        string `yaml:"db,omitempty"`         // 数据库名
	Col       string `yaml:"col,omitempty"`        // 集合名，为空则使用{job}.trace
	BatchSize int    `yaml:"batch_size,omitempty"` // 批量写入大小
}

// Requirement 需求检查配置
type Requirement struct {
	SkipSteps           int     `yaml:"skip_steps"`            // 忽略开头的步数
	AccelThreshold      float64 `yaml:"accel_threshold"`       // 稳态加速度阈值（米/秒²）
	SpeedErrorThreshold float64 `yaml:"speed_error_threshold"` // 相对速度误差阈值
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Input       Input       `yaml:"input"`   // 输入
	Control     Control     `yaml:"control"` // 模拟过程控制
	Lead        Lead        `yaml:"lead"`
	Cycle       Cycle       `yaml:"cycle"`
	Output      OutputPath  `yaml:"output"`
	Requirement Requirement `yaml:"requirement"`
}
