package clock

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// ClockServiceName 时钟服务名
	ClockServiceName = "cacc.clock.v1.ClockService"
	// ClockServiceNowProcedure Now接口路径
	ClockServiceNowProcedure = "/" + ClockServiceName + "/Now"
)

// NowRequest 查询当前仿真时间的请求
type NowRequest struct{}

// NowResponse 当前仿真时间
type NowResponse struct {
	T    float64 `json:"t"`    // 当前时间（秒）
	Step int32   `json:"step"` // 当前步数
}

// Handler 生成ClockService的HTTP处理器
// 功能：注册时钟服务的RPC处理器，供http.ServeMux挂载
// 参数：opts-处理器选项（编解码器等）
// 返回：挂载路径与处理器
func (c *Clock) Handler(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ClockServiceNowProcedure, connect.NewUnaryHandler(ClockServiceNowProcedure, c.Now, opts...))
	return "/" + ClockServiceName + "/", mux
}

// Now 获取当前仿真时间
// 功能：RPC接口，返回当前仿真时间与步数
func (c *Clock) Now(ctx context.Context, in *connect.Request[NowRequest]) (*connect.Response[NowResponse], error) {
	t, step := c.Snapshot()
	return connect.NewResponse(&NowResponse{
		T:    t,
		Step: step,
	}), nil
}
