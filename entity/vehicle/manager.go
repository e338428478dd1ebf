package vehicle

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/entity"
)

// VehicleManager 车辆控制器管理器
// 功能：为多辆仿真车辆各自维护独立的控制器实例
// 说明：控制器之间互不共享状态；控制器本身不加锁，经由管理器的调用全部在锁内完成，
// 因此本地回放与RPC接入可以同时操作同一辆车
type VehicleManager struct {
	dt float64

	data map[int32]*Controller
	mtx  sync.Mutex
}

// NewManager 创建车辆控制器管理器
// 参数：dt-新建控制器使用的时间步长（秒）
func NewManager(dt float64) *VehicleManager {
	return &VehicleManager{
		dt:   dt,
		data: make(map[int32]*Controller),
	}
}

// getOrAdd 查找控制器，不存在则新建
func (m *VehicleManager) getOrAdd(id int32) *Controller {
	c, ok := m.data[id]
	if !ok {
		c = NewWithInterval(m.dt)
		m.data[id] = c
		log.Debugf("add controller for vehicle %d", id)
	}
	return c
}

// Get 输入车辆ID，查找控制器，如果不存在则panic
func (m *VehicleManager) Get(id int32) *Controller {
	c, err := m.GetOrError(id)
	if err != nil {
		log.Panic(err)
	}
	return c
}

// GetOrError 输入车辆ID，查找控制器，如果不存在则返回error
func (m *VehicleManager) GetOrError(id int32) (*Controller, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.get(id)
}

func (m *VehicleManager) get(id int32) (*Controller, error) {
	if c, ok := m.data[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("vehicle %d does not exist", id)
}

// IDs 获取所有车辆ID（升序）
func (m *VehicleManager) IDs() []int32 {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	ids := lo.Keys(m.data)
	slices.Sort(ids)
	return ids
}

// StepAction 推进指定车辆的控制器一步
// 功能：首次出现的车辆自动创建控制器
// 返回：完整的动作（含诊断量），其中的位置与指令在同一次加锁内得到
func (m *VehicleManager) StepAction(id int32, setSpeed, egoSpeed float64, lead entity.LeadObservation) (Action, error) {
	if id < 0 {
		return Action{}, fmt.Errorf("invalid vehicle id %d", id)
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.getOrAdd(id).Step(setSpeed, egoSpeed, lead), nil
}

// Step 推进指定车辆的控制器一步
func (m *VehicleManager) Step(id int32, setSpeed, egoSpeed float64, lead entity.LeadObservation) (entity.ActuatorCommand, error) {
	ac, err := m.StepAction(id, setSpeed, egoSpeed, lead)
	return ac.ActuatorCommand, err
}

// Reset 重置车辆控制器状态
func (m *VehicleManager) Reset(id int32) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	c, err := m.get(id)
	if err != nil {
		return err
	}
	c.Reset()
	return nil
}

// Remove 删除车辆控制器
func (m *VehicleManager) Remove(id int32) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	delete(m.data, id)
}

// Position 查询车辆累计位置
func (m *VehicleManager) Position(id int32) (float64, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	c, err := m.get(id)
	if err != nil {
		return 0, err
	}
	return c.Position(), nil
}
