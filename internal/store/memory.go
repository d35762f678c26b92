package store

import (
    "context"
    "sync"

    "walloc/internal/model"
)

// Memory is the in-memory store used when neither DATABASE_URL nor
// SQLITE_PATH is set.
type Memory struct {
    mu         sync.Mutex
    warehouses []model.Warehouse
    dcs        []model.DistributionCenter
    skus       []model.SKU
    carriers   []model.Carrier
    vehicles   []model.Vehicle
    snapshots  []model.InventorySnapshot
    schedule   []model.ScheduleEntry
    demand     []model.DemandRow
    plan       []model.CustomerPlanRow
    settings   model.Settings
    plans      map[string]model.PlanResult
    planOrder  []string
}

func NewMemory() *Memory {
    return &Memory{plans: map[string]model.PlanResult{}}
}

// NewMemorySeeded returns a memory store preloaded with the default dataset.
func NewMemorySeeded() *Memory {
    m := NewMemory()
    ds := SeedDataset()
    m.warehouses = ds.Warehouses
    m.dcs = ds.DistributionCenters
    m.skus = ds.SKUs
    m.carriers = ds.Carriers
    m.vehicles = ds.Vehicles
    m.snapshots = ds.Snapshots
    m.schedule = ds.Schedule
    m.demand = ds.Demand
    m.plan = ds.CustomerPlan
    m.settings = ds.Settings
    return m
}

func copySlice[T any](in []T) []T {
    out := make([]T, len(in))
    copy(out, in)
    return out
}

func (m *Memory) Warehouses(ctx context.Context) ([]model.Warehouse, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.warehouses), nil
}

func (m *Memory) PutWarehouses(ctx context.Context, rows []model.Warehouse) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.warehouses = copySlice(rows)
    return nil
}

func (m *Memory) DistributionCenters(ctx context.Context) ([]model.DistributionCenter, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.dcs), nil
}

func (m *Memory) PutDistributionCenters(ctx context.Context, rows []model.DistributionCenter) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.dcs = copySlice(rows)
    return nil
}

func (m *Memory) SKUs(ctx context.Context) ([]model.SKU, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.skus), nil
}

func (m *Memory) PutSKUs(ctx context.Context, rows []model.SKU) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.skus = copySlice(rows)
    return nil
}

func (m *Memory) Carriers(ctx context.Context) ([]model.Carrier, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.carriers), nil
}

func (m *Memory) PutCarriers(ctx context.Context, rows []model.Carrier) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.carriers = copySlice(rows)
    return nil
}

func (m *Memory) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.vehicles), nil
}

func (m *Memory) PutVehicles(ctx context.Context, rows []model.Vehicle) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.vehicles = copySlice(rows)
    return nil
}

func (m *Memory) Snapshots(ctx context.Context) ([]model.InventorySnapshot, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.snapshots), nil
}

func (m *Memory) PutSnapshots(ctx context.Context, rows []model.InventorySnapshot) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.snapshots = copySlice(rows)
    return nil
}

func (m *Memory) Schedule(ctx context.Context) ([]model.ScheduleEntry, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.schedule), nil
}

func (m *Memory) PutSchedule(ctx context.Context, rows []model.ScheduleEntry) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.schedule = copySlice(rows)
    return nil
}

func (m *Memory) DemandForecast(ctx context.Context) ([]model.DemandRow, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.demand), nil
}

func (m *Memory) PutDemandForecast(ctx context.Context, rows []model.DemandRow) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.demand = copySlice(rows)
    return nil
}

func (m *Memory) CustomerPlan(ctx context.Context) ([]model.CustomerPlanRow, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return copySlice(m.plan), nil
}

func (m *Memory) PutCustomerPlan(ctx context.Context, rows []model.CustomerPlanRow) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.plan = copySlice(rows)
    return nil
}

func (m *Memory) Settings(ctx context.Context) (model.Settings, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.settings, nil
}

func (m *Memory) SaveSettings(ctx context.Context, s model.Settings) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.settings = s
    return nil
}

func (m *Memory) SavePlan(ctx context.Context, p model.PlanResult) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if _, ok := m.plans[p.ID]; !ok {
        m.planOrder = append(m.planOrder, p.ID)
    }
    m.plans[p.ID] = p
    return nil
}

func (m *Memory) GetPlan(ctx context.Context, id string) (model.PlanResult, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    p, ok := m.plans[id]
    if !ok {
        return model.PlanResult{}, ErrNotFound
    }
    return p, nil
}

func (m *Memory) ListPlans(ctx context.Context, limit int) ([]model.PlanResult, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if limit <= 0 || limit > 500 {
        limit = 100
    }
    out := []model.PlanResult{}
    for i := len(m.planOrder) - 1; i >= 0 && len(out) < limit; i-- {
        out = append(out, m.plans[m.planOrder[i]])
    }
    return out, nil
}
