package vehicle

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
)

const (
	// VehicleServiceName 车辆控制服务名
	VehicleServiceName = "cacc.vehicle.v1.VehicleService"

	VehicleServiceStepProcedure     = "/" + VehicleServiceName + "/Step"
	VehicleServiceResetProcedure    = "/" + VehicleServiceName + "/Reset"
	VehicleServiceGetStateProcedure = "/" + VehicleServiceName + "/GetState"
)

// StepRequest 宿主仿真器每步的输入
type StepRequest struct {
	VehicleID int32                  `json:"vehicle_id"`
	SetSpeed  float64                `json:"set_speed"`
	EgoSpeed  float64                `json:"ego_speed"`
	Lead      entity.LeadObservation `json:"lead"`
}

// StepResponse 每步的执行器指令与诊断量
type StepResponse struct {
	Command         entity.ActuatorCommand `json:"command"`
	Mode            string                 `json:"mode"`
	Position        float64                `json:"position"`
	MinSafeDistance float64                `json:"min_safe_distance"`
	GapError        float64                `json:"gap_error"`
}

type ResetRequest struct {
	VehicleID int32 `json:"vehicle_id"`
}

type ResetResponse struct{}

type GetStateRequest struct {
	VehicleID int32 `json:"vehicle_id"`
}

type GetStateResponse struct {
	VehicleID int32   `json:"vehicle_id"`
	Position  float64 `json:"position"`
	Interval  float64 `json:"interval"`
}

// Handler 生成VehicleService的HTTP处理器
// 功能：注册车辆控制服务的RPC处理器，供http.ServeMux挂载
// 参数：opts-处理器选项（编解码器等）
// 返回：挂载路径与处理器
func (m *VehicleManager) Handler(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(VehicleServiceStepProcedure, connect.NewUnaryHandler(VehicleServiceStepProcedure, m.StepRPC, opts...))
	mux.Handle(VehicleServiceResetProcedure, connect.NewUnaryHandler(VehicleServiceResetProcedure, m.ResetRPC, opts...))
	mux.Handle(VehicleServiceGetStateProcedure, connect.NewUnaryHandler(VehicleServiceGetStateProcedure, m.GetState, opts...))
	return "/" + VehicleServiceName + "/", mux
}

// StepRPC 推进车辆控制器一步
// 功能：宿主仿真器每步调用一次，首次出现的车辆自动创建控制器
// 参数：ctx-上下文，in-请求参数（车辆ID、设定速度、本车速度、前车观测）
// 返回：执行器指令响应，车辆ID非法时返回CodeInvalidArgument
func (m *VehicleManager) StepRPC(
	ctx context.Context, in *connect.Request[StepRequest],
) (*connect.Response[StepResponse], error) {
	req := in.Msg
	ac, err := m.StepAction(req.VehicleID, req.SetSpeed, req.EgoSpeed, req.Lead)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&StepResponse{
		Command:         ac.ActuatorCommand,
		Mode:            ac.Mode.String(),
		Position:        ac.Position,
		MinSafeDistance: ac.MinSafeDistance,
		GapError:        ac.GapError,
	}), nil
}

// ResetRPC 重置车辆控制器
func (m *VehicleManager) ResetRPC(
	ctx context.Context, in *connect.Request[ResetRequest],
) (*connect.Response[ResetResponse], error) {
	if err := m.Reset(in.Msg.VehicleID); err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewResponse(&ResetResponse{}), nil
}

// GetState 查询车辆控制器状态
func (m *VehicleManager) GetState(
	ctx context.Context, in *connect.Request[GetStateRequest],
) (*connect.Response[GetStateResponse], error) {
	req := in.Msg
	pos, err := m.Position(req.VehicleID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewResponse(&GetStateResponse{
		VehicleID: req.VehicleID,
		Position:  pos,
		Interval:  m.dt,
	}), nil
}
