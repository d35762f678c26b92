package store

import (
    "context"
    "errors"

    "walloc/internal/model"
)

// Store is the persistence interface used by the API server and planner.
// Put methods replace the whole record set, matching how datasets are
// edited and re-imported as a unit.
type Store interface {
    Warehouses(ctx context.Context) ([]model.Warehouse, error)
    PutWarehouses(ctx context.Context, rows []model.Warehouse) error

    DistributionCenters(ctx context.Context) ([]model.DistributionCenter, error)
    PutDistributionCenters(ctx context.Context, rows []model.DistributionCenter) error

    SKUs(ctx context.Context) ([]model.SKU, error)
    PutSKUs(ctx context.Context, rows []model.SKU) error

    Carriers(ctx context.Context) ([]model.Carrier, error)
    PutCarriers(ctx context.Context, rows []model.Carrier) error

    Vehicles(ctx context.Context) ([]model.Vehicle, error)
    PutVehicles(ctx context.Context, rows []model.Vehicle) error

    Snapshots(ctx context.Context) ([]model.InventorySnapshot, error)
    PutSnapshots(ctx context.Context, rows []model.InventorySnapshot) error

    Schedule(ctx context.Context) ([]model.ScheduleEntry, error)
    PutSchedule(ctx context.Context, rows []model.ScheduleEntry) error

    DemandForecast(ctx context.Context) ([]model.DemandRow, error)
    PutDemandForecast(ctx context.Context, rows []model.DemandRow) error

    CustomerPlan(ctx context.Context) ([]model.CustomerPlanRow, error)
    PutCustomerPlan(ctx context.Context, rows []model.CustomerPlanRow) error

    Settings(ctx context.Context) (model.Settings, error)
    SaveSettings(ctx context.Context, s model.Settings) error

    SavePlan(ctx context.Context, p model.PlanResult) error
    GetPlan(ctx context.Context, id string) (model.PlanResult, error)
    ListPlans(ctx context.Context, limit int) ([]model.PlanResult, error)
}

var ErrNotFound = errors.New("not found")
