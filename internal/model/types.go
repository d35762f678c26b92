package model

// Core domain records. These are plain snapshots handed to the planning
// engine; validation happens at construction/import time, the engine treats
// them as immutable.

type GeoPoint struct {
    Lat float64 `json:"lat"`
    Lng float64 `json:"lng"`
}

// Warehouse is a supply node. Capacity is the declared weekly ceiling; the
// inventory projector may override it per planning week.
type Warehouse struct {
    Name     string   `json:"name"`
    Address  string   `json:"address,omitempty"`
    Location GeoPoint `json:"location"`
    Capacity float64  `json:"capacity"`
}

// DistributionCenter is a demand node, identified by (channel, state).
type DistributionCenter struct {
    Channel  string   `json:"channel"`
    State    string   `json:"state"`
    Address  string   `json:"address,omitempty"`
    Location GeoPoint `json:"location"`
}

// SKU dimensions are inches, weight is pounds.
type SKU struct {
    Code     string  `json:"code"`
    Name     string  `json:"name,omitempty"`
    LengthIn float64 `json:"lengthIn"`
    WidthIn  float64 `json:"widthIn"`
    HeightIn float64 `json:"heightIn"`
    WeightLb float64 `json:"weightLb"`
    UnitType string  `json:"unitType,omitempty"` // each, case, pallet
}

// RateTier prices a distance bracket [MinDistance, MaxDistance] in miles.
// Rate is $ per chargeable pound per 100 miles.
type RateTier struct {
    MinDistance   float64 `json:"minDistance"`
    MaxDistance   float64 `json:"maxDistance"`
    Rate          float64 `json:"rate"`
    MinimumCharge float64 `json:"minimumCharge"`
    FixedFee      float64 `json:"fixedFee"`
}

type Carrier struct {
    Name        string     `json:"name"`
    Mode        string     `json:"mode"` // LTL or FTL
    Description string     `json:"description,omitempty"`
    Tiers       []RateTier `json:"tiers"`
}

// Key distinguishes carriers sharing a name across modes (e.g. TMS LTL vs
// TMS FTL).
func (c Carrier) Key() string { return c.Name + "/" + c.Mode }

type Vehicle struct {
    Name        string  `json:"name"`
    LengthIn    float64 `json:"lengthIn"`
    WidthIn     float64 `json:"widthIn"`
    HeightIn    float64 `json:"heightIn"`
    MaxWeightLb float64 `json:"maxWeightLb"`
    Description string  `json:"description,omitempty"`
}

// InventorySnapshot is the opening quantity for (warehouse, SKU) at Week.
type InventorySnapshot struct {
    Warehouse string  `json:"warehouse"`
    SKU       string  `json:"sku"`
    Week      int     `json:"week"`
    Quantity  float64 `json:"quantity"`
}

const (
    DirectionIncoming = "incoming"
    DirectionOutgoing = "outgoing"
)

// ScheduleEntry is a planned inventory movement applied during Week.
type ScheduleEntry struct {
    Warehouse string  `json:"warehouse"`
    SKU       string  `json:"sku"`
    Week      int     `json:"week"`
    Direction string  `json:"direction"` // incoming or outgoing
    Quantity  float64 `json:"quantity"`
}

// DemandRow is one forecast entry: Units must be met exactly for
// (product, channel, state) in Week.
type DemandRow struct {
    Product string  `json:"product"`
    Channel string  `json:"channel"`
    State   string  `json:"state"`
    Week    int     `json:"week"`
    Units   float64 `json:"units"`
}

// CustomerPlanRow is one line of the customer's manually configured
// allocation plan, priced as-is by the baseline comparator.
type CustomerPlanRow struct {
    Product   string  `json:"product"`
    Warehouse string  `json:"warehouse"`
    Channel   string  `json:"channel"`
    State     string  `json:"state"`
    Week      int     `json:"week"`
    Units     float64 `json:"units"`
}

// Settings carries the scenario-level knobs the original system kept in its
// settings table: flat $/unit/100mi rates plus the selected carriers for
// the dual-rate comparison.
type Settings struct {
    MarketRatePer100Mi float64  `json:"marketRatePer100Mi"`
    TMSRatePer100Mi    float64  `json:"tmsRatePer100Mi"`
    CustomerCarrier    string   `json:"customerCarrier"` // Carrier.Key()
    TMSCarrier         string   `json:"tmsCarrier"`
    CustomerWarehouses []string `json:"customerWarehouses,omitempty"`
}

// OptimizeRequest drives a solve. Weeks defaults to the planning horizon
// (weeks 3 and 4). RateMode selects the flat per-unit rates or the full
// carrier tier model.
type OptimizeRequest struct {
    Weeks        []int   `json:"weeks,omitempty"`
    RateMode     string  `json:"rateMode,omitempty"` // flat or carrier
    Carrier      string  `json:"carrier,omitempty"`  // Carrier.Key(), carrier mode only
    Vehicle      string  `json:"vehicle,omitempty"`  // empty = best fitting vehicle
    Epsilon      float64 `json:"epsilon,omitempty"`  // allocation noise threshold
    Tolerance    float64 `json:"tolerance,omitempty"`
    TimeBudgetMs int     `json:"timeBudgetMs,omitempty"`
}

// BaselineRequest drives the customer-cost computation. Mode "manual" prices
// the stored customer plan; "auto" optimizes within the customer's selected
// warehouses without capacity constraints.
type BaselineRequest struct {
    Weeks      []int    `json:"weeks,omitempty"`
    Mode       string   `json:"mode,omitempty"` // manual or auto
    Warehouses []string `json:"warehouses,omitempty"`
}

// AllocationRow is one reported shipment lane in a plan.
type AllocationRow struct {
    Product       string  `json:"product"`
    Warehouse     string  `json:"warehouse"`
    Channel       string  `json:"channel"`
    State         string  `json:"state"`
    Units         float64 `json:"units"`
    UnitCost      float64 `json:"unitCost"`
    DistanceMiles float64 `json:"distanceMiles"`
    Cost          float64 `json:"cost"`
    ShipRequired  float64 `json:"shipRequired,omitempty"` // units beyond projected availability
}

// WeekResult is the solver outcome for one planning week.
type WeekResult struct {
    Week        int             `json:"week"`
    Status      string          `json:"status"` // optimal, infeasible, numerical_failure
    Objective   float64         `json:"objective"`
    Allocations []AllocationRow `json:"allocations,omitempty"`
    Warnings    []string        `json:"warnings,omitempty"`
    Detail      string          `json:"detail,omitempty"` // cause for non-optimal statuses
}

// PlanResult is a persisted solve outcome.
type PlanResult struct {
    ID        string       `json:"id"`
    Kind      string       `json:"kind"` // optimized or customer
    RateMode  string       `json:"rateMode"`
    Carrier   string       `json:"carrier,omitempty"`
    CreatedAt string       `json:"createdAt"`
    Weeks     []WeekResult `json:"weeks"`
}

// WeekSavings compares customer and optimized cost for one week.
type WeekSavings struct {
    Week          int    `json:"week"`
    CustomerCost  string `json:"customerCost"`
    OptimizedCost string `json:"optimizedCost"`
    Savings       string `json:"savings"`
    SavingsPct    string `json:"savingsPct"`
}

// SavingsReport is the dual-rate comparison summary. Money fields are
// decimal strings rounded to cents.
type SavingsReport struct {
    CustomerCost  string        `json:"customerCost"`
    OptimizedCost string        `json:"optimizedCost"`
    Savings       string        `json:"savings"`
    SavingsPct    string        `json:"savingsPct"`
    Weeks         []WeekSavings `json:"weeks"`
}
