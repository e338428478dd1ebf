package task

import (
	"context"
	"flag"
	"fmt"

	"github.com/tsinghua-fib-lab/cacc-sim-oss/output"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/requirement"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 1000, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：推进时钟并定期输出心跳日志
func (ctx *Context) prepare() {
	ctx.clock.Next()

	if *heartBeatInterval > 0 && ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f)",
			ctx.clock.InternalStep,
			hour, minute, second,
		)
	}
}

// update 更新阶段，每步执行一次
// 功能：回放本车速度，调用控制器并记录
// 算法说明：
// 1. 从工况曲线读取当前时刻本车速度，差分得到加速度
// 2. 观测前车并调用本车控制器
// 3. 写入记录，前车位置积分
func (ctx *Context) update() error {
	step, t, dt := ctx.clock.InternalStep, ctx.clock.T, ctx.clock.DT
	c := ctx.runtimeConfig.C

	egoSpeed := ctx.initRes.Cycle.SpeedAt(t)
	var accel float64
	if step != ctx.clock.START_STEP {
		accel = (egoSpeed - ctx.prevSpeed) / dt
	}
	ctx.prevSpeed = egoSpeed

	obs := ctx.lead.Observe()
	ac, err := ctx.vehicleManager.StepAction(c.Vehicle, c.SetSpeed, egoSpeed, obs)
	if err != nil {
		return err
	}

	if err := ctx.sink.Write(output.Record{
		Step:            step,
		T:               t,
		SetSpeed:        c.SetSpeed,
		CavOn:           true,
		EgoSpeed:        egoSpeed,
		EgoAccel:        accel,
		EgoPosition:     ac.Position,
		LeadExists:      obs.Exists,
		LeadX:           obs.LongitudinalPosition,
		LeadVX:          obs.LongitudinalVelocity,
		LeadY:           obs.LateralPosition,
		LeadVY:          obs.LateralVelocity,
		Torque:          ac.Torque,
		Brake:           ac.Brake,
		Mode:            ac.Mode.String(),
		MinSafeDistance: ac.MinSafeDistance,
		Gap:             ac.ActualGap,
		GapError:        ac.GapError,
	}); err != nil {
		return fmt.Errorf("step %d: write output: %w", step, err)
	}

	ctx.lead.Update()
	return nil
}

// Run 运行
// 功能：执行[START_STEP, END_STEP)全部步，结束后关闭输出并进行需求检查
// 参数：c-上下文，取消时在当前步结束后停止
func (ctx *Context) Run(c context.Context) (err error) {
	ctx.clock.Init()
	log.Infof("job %s start: steps [%d, %d), dt=%v", ctx.job, ctx.clock.START_STEP, ctx.clock.END_STEP, ctx.clock.DT)
	defer func() {
		if cerr := ctx.sink.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
		ctx.results = requirement.Check(ctx.memory.Records, ctx.runtimeConfig.All.Requirement)
		for _, r := range ctx.results {
			if r.Passed() {
				log.Info(r)
			} else {
				log.Warn(r)
			}
		}
	}()
	for !ctx.clock.Done() {
		if c.Err() != nil || ctx.closed.Load() {
			log.Infof("job %s stopped at step %d", ctx.job, ctx.clock.InternalStep)
			return c.Err()
		}
		if err := ctx.update(); err != nil {
			return err
		}
		ctx.prepare()
	}
	log.Infof("engine complete")
	return nil
}
