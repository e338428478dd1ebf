package task

import (
	"net/http"
	"sync/atomic"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/clock"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity/lead"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/output"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/requirement"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/input"
)

var _ entity.ITaskContext = (*Context)(nil)

// Context 仿真任务上下文
// 功能：包含一次工况回放任务的所有变量和状态
// 说明：本车速度按工况曲线回放，不模拟车辆动力学；控制器每步输出的指令只做记录
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 用于初始化的输入
	initRes *input.Input

	// 车辆控制器管理器（本车与RPC接入的车辆共用）
	vehicleManager *vehicle.VehicleManager
	// 脚本化前车
	lead *lead.Lead

	// 输出
	sink   output.Sink
	memory *output.MemorySink

	prevSpeed float64
	results   []requirement.Result
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化时钟、控制器、前车与输出
// 参数：
//   - job: 任务名称
//   - rc: 运行时配置
//   - in: 输入数据
//   - sink: 外部输出目标（可为nil）
//
// 返回：初始化完成的Context实例
func NewContext(
	job string,
	rc *config.RuntimeConfig,
	in *input.Input,
	sink output.Sink,
) *Context {
	ctx := &Context{
		job:           job,
		runtimeConfig: rc,
		initRes:       in,
		memory:        output.NewMemorySink(),
	}
	ctx.clock = clock.New(rc.C.Step)
	if ctx.clock.DT != vehicle.DefaultTickInterval {
		log.Warnf("step interval %v differs from the controller default %v", ctx.clock.DT, vehicle.DefaultTickInterval)
	}
	ctx.vehicleManager = vehicle.NewManager(ctx.clock.DT)
	ctx.lead = lead.New(ctx)
	if sink != nil {
		ctx.sink = output.MultiSink{ctx.memory, sink}
	} else {
		ctx.sink = ctx.memory
	}
	return ctx
}

// Register 将RPC服务挂载到mux
// 功能：注册时钟服务与车辆控制服务，外部宿主仿真器可以接入额外的车辆
func (ctx *Context) Register(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(ctx.clock.Handler(opts...))
	mux.Handle(ctx.vehicleManager.Handler(opts...))
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) VehicleManager() *vehicle.VehicleManager {
	return ctx.vehicleManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Records 已记录的全部步
func (ctx *Context) Records() []output.Record {
	return ctx.memory.Records
}

// Results 需求检查结果，Run结束后可用
func (ctx *Context) Results() []requirement.Result {
	return ctx.results
}

// Stop 请求在当前步结束后停止
func (ctx *Context) Stop() {
	ctx.closed.Store(true)
}
