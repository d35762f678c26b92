package plan

import (
    "context"
    "fmt"
    "sort"
    "strconv"
    "sync"
    "time"

    "github.com/google/uuid"

    "walloc/internal/config"
    "walloc/internal/geo"
    "walloc/internal/inventory"
    "walloc/internal/metrics"
    "walloc/internal/model"
    "walloc/internal/opt"
    "walloc/internal/rate"
    "walloc/internal/store"
)

const (
    KindOptimized = "optimized"
    KindCustomer  = "customer"
    KindBaseline  = "baseline"

    RateModeFlat    = "flat"
    RateModeCarrier = "carrier"
)

// The planning horizon: demand is forecast two weeks out.
var defaultWeeks = []int{3, 4}

// RequestError marks a failure caused by the request or scenario data rather
// than the solver or the store.
type RequestError struct {
    Msg string
}

func (e *RequestError) Error() string { return e.Msg }

func reqErrf(format string, args ...any) error {
    return &RequestError{Msg: fmt.Sprintf(format, args...)}
}

// Planner wires the store, the distance service and the optimization engine
// into the operations the API exposes.
type Planner struct {
    Store store.Store
    Geo   *geo.Service
    Cfg   config.Config
}

func New(st store.Store, g *geo.Service, cfg config.Config) *Planner {
    return &Planner{Store: st, Geo: g, Cfg: cfg}
}

type dcKey struct {
    Channel string
    State   string
}

// dataset is one consistent read of the scenario. Planning never goes back
// to the store mid-solve, so concurrent edits cannot tear a run.
type dataset struct {
    warehouses []model.Warehouse
    dcs        map[dcKey]model.DistributionCenter
    skus       map[string]model.SKU
    carriers   map[string]model.Carrier
    vehicles   []model.Vehicle
    snapshots  []model.InventorySnapshot
    schedule   []model.ScheduleEntry
    demand     []model.DemandRow
    customer   []model.CustomerPlanRow
    settings   model.Settings
}

func (p *Planner) load(ctx context.Context) (*dataset, error) {
    ds := &dataset{
        dcs:      map[dcKey]model.DistributionCenter{},
        skus:     map[string]model.SKU{},
        carriers: map[string]model.Carrier{},
    }
    var err error
    if ds.warehouses, err = p.Store.Warehouses(ctx); err != nil {
        return nil, err
    }
    sort.Slice(ds.warehouses, func(i, j int) bool { return ds.warehouses[i].Name < ds.warehouses[j].Name })
    dcs, err := p.Store.DistributionCenters(ctx)
    if err != nil {
        return nil, err
    }
    for _, d := range dcs {
        ds.dcs[dcKey{d.Channel, d.State}] = d
    }
    skus, err := p.Store.SKUs(ctx)
    if err != nil {
        return nil, err
    }
    for _, k := range skus {
        ds.skus[k.Code] = k
    }
    carriers, err := p.Store.Carriers(ctx)
    if err != nil {
        return nil, err
    }
    for _, c := range carriers {
        ds.carriers[c.Key()] = c
    }
    if ds.vehicles, err = p.Store.Vehicles(ctx); err != nil {
        return nil, err
    }
    if ds.snapshots, err = p.Store.Snapshots(ctx); err != nil {
        return nil, err
    }
    if ds.schedule, err = p.Store.Schedule(ctx); err != nil {
        return nil, err
    }
    if ds.demand, err = p.Store.DemandForecast(ctx); err != nil {
        return nil, err
    }
    if ds.customer, err = p.Store.CustomerPlan(ctx); err != nil {
        return nil, err
    }
    if ds.settings, err = p.Store.Settings(ctx); err != nil {
        return nil, err
    }
    if ds.settings.MarketRatePer100Mi <= 0 {
        ds.settings.MarketRatePer100Mi = p.Cfg.MarketRatePer100Mi
    }
    if ds.settings.TMSRatePer100Mi <= 0 {
        ds.settings.TMSRatePer100Mi = p.Cfg.TMSRatePer100Mi
    }
    return ds, nil
}

// pricing selects how lanes are priced: a flat $/unit/100mi rate or the full
// carrier tier model with a vehicle.
type pricing struct {
    mode     string
    flatRate float64
    carrier  model.Carrier
    vehicles []model.Vehicle
    restrict map[string]bool // nil allows every warehouse
}

func (p *Planner) pricingFor(ds *dataset, mode, carrierKey, vehicleName string, flatRate float64) (pricing, error) {
    pr := pricing{mode: mode, flatRate: flatRate}
    if mode == RateModeFlat {
        return pr, nil
    }
    if mode != RateModeCarrier {
        return pr, reqErrf("rateMode must be %q or %q, got %q", RateModeFlat, RateModeCarrier, mode)
    }
    c, ok := ds.carriers[carrierKey]
    if !ok {
        return pr, reqErrf("unknown carrier %q", carrierKey)
    }
    pr.carrier = c
    if vehicleName != "" {
        for _, v := range ds.vehicles {
            if v.Name == vehicleName {
                pr.vehicles = []model.Vehicle{v}
                break
            }
        }
        if pr.vehicles == nil {
            return pr, reqErrf("unknown vehicle %q", vehicleName)
        }
    } else {
        pr.vehicles = ds.vehicles
    }
    if len(pr.vehicles) == 0 {
        return pr, reqErrf("carrier pricing needs at least one vehicle")
    }
    return pr, nil
}

// costTable is a precomputed opt.CostProvider. Entries keep the warehouse
// sort order, so identical scenarios build identical matrices.
type costTable struct {
    entries map[opt.DemandKey][]opt.CostEntry
}

func (t *costTable) UnitCosts(product, channel, state string) []opt.CostEntry {
    return t.entries[opt.DemandKey{Product: product, Channel: channel, State: state}]
}

// buildCosts prices every (warehouse, demand group) lane once. Lanes that
// cannot be priced are excluded and reported as warnings; exclusion of every
// lane of a group surfaces later as EmptyFeasibleSetError.
func (p *Planner) buildCosts(ds *dataset, groups []opt.DemandKey, pr pricing) (*costTable, []string) {
    t := &costTable{entries: map[opt.DemandKey][]opt.CostEntry{}}
    var warns []string
    warnf := func(format string, args ...any) {
        warns = append(warns, fmt.Sprintf(format, args...))
    }
    for _, g := range groups {
        if _, ok := t.entries[g]; ok {
            continue
        }
        dc, ok := ds.dcs[dcKey{g.Channel, g.State}]
        if !ok {
            warnf("no distribution center for %s-%s", g.Channel, g.State)
            t.entries[g] = nil
            continue
        }
        var entries []opt.CostEntry
        for _, w := range ds.warehouses {
            if pr.restrict != nil && !pr.restrict[w.Name] {
                continue
            }
            dist, err := p.Geo.Between(w.Location, dc.Location)
            if err != nil {
                warnf("distance %s -> %s-%s: %v", w.Name, g.Channel, g.State, err)
                continue
            }
            var unitCost float64
            switch pr.mode {
            case RateModeFlat:
                unitCost = rate.Flat{PerUnitPer100Mi: pr.flatRate}.UnitCost(dist)
            case RateModeCarrier:
                sku, ok := ds.skus[g.Product]
                if !ok {
                    warnf("no sku record for product %s", g.Product)
                    continue
                }
                unitCost, _, err = rate.UnitCostBestVehicle(sku, pr.carrier, pr.vehicles, dist)
                if err != nil {
                    warnf("rate %s -> %s-%s: %v", w.Name, g.Channel, g.State, err)
                    continue
                }
            }
            entries = append(entries, opt.CostEntry{Warehouse: w.Name, UnitCost: unitCost, Distance: dist})
        }
        t.entries[g] = entries
    }
    return t, warns
}

func weeksOr(weeks []int) []int {
    if len(weeks) == 0 {
        return defaultWeeks
    }
    return weeks
}

func demandsFor(rows []model.DemandRow, week int) []opt.Demand {
    var out []opt.Demand
    for _, r := range rows {
        if r.Week != week {
            continue
        }
        out = append(out, opt.Demand{Product: r.Product, Channel: r.Channel, State: r.State, Units: r.Units})
    }
    sort.Slice(out, func(i, j int) bool {
        a, b := out[i], out[j]
        if a.Product != b.Product {
            return a.Product < b.Product
        }
        if a.Channel != b.Channel {
            return a.Channel < b.Channel
        }
        return a.State < b.State
    })
    return out
}

func groupsFor(rows []model.DemandRow, weeks []int) []opt.DemandKey {
    want := map[int]bool{}
    for _, w := range weeks {
        want[w] = true
    }
    seen := map[opt.DemandKey]bool{}
    var out []opt.DemandKey
    for _, r := range rows {
        if !want[r.Week] {
            continue
        }
        k := opt.DemandKey{Product: r.Product, Channel: r.Channel, State: r.State}
        if !seen[k] {
            seen[k] = true
            out = append(out, k)
        }
    }
    return out
}

func (p *Planner) solverConfig(req model.OptimizeRequest) opt.SolverConfig {
    cfg := opt.SolverConfig{
        Tolerance:  p.Cfg.Tolerance,
        Epsilon:    p.Cfg.Epsilon,
        TimeBudget: p.Cfg.TimeBudget(),
    }
    if req.Tolerance > 0 {
        cfg.Tolerance = req.Tolerance
    }
    if req.Epsilon > 0 {
        cfg.Epsilon = req.Epsilon
    }
    if req.TimeBudgetMs > 0 {
        cfg.TimeBudget = time.Duration(req.TimeBudgetMs) * time.Millisecond
    }
    return cfg
}

// solveWeek builds and solves the week's transportation problem, partitioned
// by product so independent sub-problems run concurrently. With capacitated
// false the warehouse rows are omitted entirely.
func (p *Planner) solveWeek(ctx context.Context, ds *dataset, proj *inventory.Projector, ct *costTable,
    week int, scfg opt.SolverConfig, capacitated bool, planID, rateMode string) (model.WeekResult, error) {

    res := model.WeekResult{Week: week, Status: string(opt.StatusOptimal)}
    demands := demandsFor(ds.demand, week)
    if len(demands) == 0 {
        res.Detail = "no demand forecast for week"
        return res, nil
    }

    parts := opt.PartitionByProduct(demands)
    products := make([]string, 0, len(parts))
    for prod := range parts {
        products = append(products, prod)
    }
    sort.Strings(products)

    type partOut struct {
        sol    opt.Solution
        warns  []string
        err    error
        vars   int
        groups int
        caps   int
        took   time.Duration
    }
    outs := make([]partOut, len(products))

    started := time.Now()
    var wg sync.WaitGroup
    for i, prod := range products {
        wg.Add(1)
        go func(i int, prod string) {
            defer wg.Done()
            o := &outs[i]
            var caps []opt.Capacity
            if capacitated {
                for _, w := range ds.warehouses {
                    eff, warns, err := proj.EffectiveCapacity(w.Name, []string{prod}, week, w.Capacity)
                    for _, wr := range warns {
                        o.warns = append(o.warns, wr.Error())
                    }
                    if err != nil {
                        o.err = err
                        return
                    }
                    caps = append(caps, opt.Capacity{Warehouse: w.Name, Units: eff})
                }
            }
            prob, err := opt.BuildProblem(parts[prod], ct, caps)
            if err != nil {
                o.err = err
                return
            }
            o.vars = len(prob.Vars)
            o.groups = len(prob.Groups)
            o.caps = len(prob.Capacities)
            t0 := time.Now()
            o.sol = opt.Solve(ctx, prob, scfg)
            o.took = time.Since(t0)
        }(i, prod)
    }
    wg.Wait()

    vars, groups, capRows := 0, 0, 0
    for i := range outs {
        o := &outs[i]
        if o.err != nil {
            return res, o.err
        }
        res.Warnings = append(res.Warnings, o.warns...)
        vars += o.vars
        groups += o.groups
        capRows += o.caps
        if o.sol.Status != opt.StatusOptimal && res.Status == string(opt.StatusOptimal) {
            res.Status = string(o.sol.Status)
            res.Detail = fmt.Sprintf("product %s: %s", products[i], o.sol.Detail)
        }
    }
    if res.Status == string(opt.StatusOptimal) {
        for _, o := range outs {
            res.Objective += o.sol.Objective
            for _, a := range o.sol.Allocations {
                res.Allocations = append(res.Allocations, model.AllocationRow{
                    Product:       a.Product,
                    Warehouse:     a.Warehouse,
                    Channel:       a.Channel,
                    State:         a.State,
                    Units:         a.Units,
                    UnitCost:      a.UnitCost,
                    DistanceMiles: a.Distance,
                    Cost:          a.Cost,
                    ShipRequired:  a.ShipRequired,
                })
            }
        }
    } else {
        res.Objective = 0
        res.Allocations = nil
    }

    took := time.Since(started)
    opt.RecordRun(planID, week, rateMode, opt.RunMetrics{
        Status:       opt.Status(res.Status),
        Objective:    res.Objective,
        Vars:         vars,
        DemandGroups: groups,
        CapacityRows: capRows,
        DurationMs:   took.Milliseconds(),
    })
    metrics.Solves.WithLabelValues(rateMode, res.Status).Inc()
    metrics.SolveDuration.WithLabelValues(rateMode, res.Status).Observe(float64(took.Milliseconds()))
    if res.Status == string(opt.StatusOptimal) {
        metrics.Objective.WithLabelValues(rateMode, strconv.Itoa(week)).Set(res.Objective)
    }
    return res, nil
}

// Optimize runs the capacity-constrained solve for the requested weeks under
// the fleet's own rates and persists the resulting plan.
func (p *Planner) Optimize(ctx context.Context, req model.OptimizeRequest) (model.PlanResult, error) {
    ds, err := p.load(ctx)
    if err != nil {
        return model.PlanResult{}, err
    }
    rateMode := req.RateMode
    if rateMode == "" {
        rateMode = RateModeFlat
    }
    carrierKey := req.Carrier
    if carrierKey == "" {
        carrierKey = ds.settings.TMSCarrier
    }
    pr, err := p.pricingFor(ds, rateMode, carrierKey, req.Vehicle, ds.settings.TMSRatePer100Mi)
    if err != nil {
        return model.PlanResult{}, err
    }

    weeks := weeksOr(req.Weeks)
    ct, costWarns := p.buildCosts(ds, groupsFor(ds.demand, weeks), pr)
    policy, err := p.Cfg.Policy()
    if err != nil {
        return model.PlanResult{}, err
    }
    proj := inventory.NewProjector(ds.snapshots, ds.schedule, policy)
    scfg := p.solverConfig(req)

    out := model.PlanResult{
        ID:        uuid.NewString(),
        Kind:      KindOptimized,
        RateMode:  rateMode,
        CreatedAt: time.Now().UTC().Format(time.RFC3339),
    }
    if rateMode == RateModeCarrier {
        out.Carrier = pr.carrier.Key()
    }
    for _, week := range weeks {
        wr, err := p.solveWeek(ctx, ds, proj, ct, week, scfg, true, out.ID, rateMode)
        if err != nil {
            return model.PlanResult{}, err
        }
        wr.Warnings = append(wr.Warnings, costWarns...)
        out.Weeks = append(out.Weeks, wr)
    }
    if err := p.Store.SavePlan(ctx, out); err != nil {
        return model.PlanResult{}, err
    }
    return out, nil
}

// CustomerCost prices the customer's side of the comparison. Manual mode
// prices the stored allocation plan exactly as configured; auto mode lets the
// solver pick lanes within the customer's warehouses, without capacity rows,
// matching how the customer quotes before our optimization is applied.
func (p *Planner) CustomerCost(ctx context.Context, req model.BaselineRequest) (model.PlanResult, error) {
    ds, err := p.load(ctx)
    if err != nil {
        return model.PlanResult{}, err
    }
    mode := req.Mode
    if mode == "" {
        mode = "manual"
    }
    weeks := weeksOr(req.Weeks)
    out := model.PlanResult{
        ID:        uuid.NewString(),
        Kind:      KindCustomer,
        RateMode:  RateModeFlat,
        CreatedAt: time.Now().UTC().Format(time.RFC3339),
    }

    switch mode {
    case "manual":
        for _, week := range weeks {
            wr, err := p.priceCustomerWeek(ds, week)
            if err != nil {
                return model.PlanResult{}, err
            }
            out.Weeks = append(out.Weeks, wr)
        }
    case "auto":
        names := req.Warehouses
        if len(names) == 0 {
            names = ds.settings.CustomerWarehouses
        }
        pr := pricing{mode: RateModeFlat, flatRate: ds.settings.MarketRatePer100Mi}
        if len(names) > 0 {
            pr.restrict = map[string]bool{}
            for _, n := range names {
                pr.restrict[n] = true
            }
        }
        ct, costWarns := p.buildCosts(ds, groupsFor(ds.demand, weeks), pr)
        scfg := p.solverConfig(model.OptimizeRequest{})
        for _, week := range weeks {
            wr, err := p.solveWeek(ctx, ds, nil, ct, week, scfg, false, out.ID, RateModeFlat)
            if err != nil {
                return model.PlanResult{}, err
            }
            wr.Warnings = append(wr.Warnings, costWarns...)
            out.Weeks = append(out.Weeks, wr)
        }
    default:
        return model.PlanResult{}, reqErrf("mode must be manual or auto, got %q", mode)
    }

    if err := p.Store.SavePlan(ctx, out); err != nil {
        return model.PlanResult{}, err
    }
    return out, nil
}

// priceCustomerWeek prices the stored plan rows as-is at the market flat
// rate. The rows are the customer's own configuration, so unpriceable rows
// are an error rather than an exclusion.
func (p *Planner) priceCustomerWeek(ds *dataset, week int) (model.WeekResult, error) {
    res := model.WeekResult{Week: week, Status: string(opt.StatusOptimal)}
    whByName := map[string]model.Warehouse{}
    for _, w := range ds.warehouses {
        whByName[w.Name] = w
    }
    for _, row := range ds.customer {
        if row.Week != week {
            continue
        }
        w, ok := whByName[row.Warehouse]
        if !ok {
            return res, reqErrf("customer plan names unknown warehouse %q", row.Warehouse)
        }
        dc, ok := ds.dcs[dcKey{row.Channel, row.State}]
        if !ok {
            return res, reqErrf("customer plan names unknown distribution center %s-%s", row.Channel, row.State)
        }
        dist, err := p.Geo.Between(w.Location, dc.Location)
        if err != nil {
            return res, err
        }
        unitCost := rate.Flat{PerUnitPer100Mi: ds.settings.MarketRatePer100Mi}.UnitCost(dist)
        res.Allocations = append(res.Allocations, model.AllocationRow{
            Product:       row.Product,
            Warehouse:     row.Warehouse,
            Channel:       row.Channel,
            State:         row.State,
            Units:         row.Units,
            UnitCost:      unitCost,
            DistanceMiles: dist,
            Cost:          row.Units * unitCost,
        })
        res.Objective += row.Units * unitCost
    }
    if len(res.Allocations) == 0 {
        res.Detail = "no customer plan rows for week"
    }
    return res, nil
}

// Baseline is the nearest-warehouse reference: each demand group entirely on
// its cheapest lane, capacity checked after the fact and flagged rather than
// enforced.
func (p *Planner) Baseline(ctx context.Context, req model.BaselineRequest) (model.PlanResult, error) {
    ds, err := p.load(ctx)
    if err != nil {
        return model.PlanResult{}, err
    }
    weeks := weeksOr(req.Weeks)
    pr := pricing{mode: RateModeFlat, flatRate: ds.settings.TMSRatePer100Mi}
    if len(req.Warehouses) > 0 {
        pr.restrict = map[string]bool{}
        for _, n := range req.Warehouses {
            pr.restrict[n] = true
        }
    }
    ct, costWarns := p.buildCosts(ds, groupsFor(ds.demand, weeks), pr)
    policy, err := p.Cfg.Policy()
    if err != nil {
        return model.PlanResult{}, err
    }
    proj := inventory.NewProjector(ds.snapshots, ds.schedule, policy)

    out := model.PlanResult{
        ID:        uuid.NewString(),
        Kind:      KindBaseline,
        RateMode:  RateModeFlat,
        CreatedAt: time.Now().UTC().Format(time.RFC3339),
    }
    for _, week := range weeks {
        demands := demandsFor(ds.demand, week)
        wr := model.WeekResult{Week: week, Status: string(opt.StatusOptimal)}
        wr.Warnings = append(wr.Warnings, costWarns...)
        if len(demands) == 0 {
            wr.Detail = "no demand forecast for week"
            out.Weeks = append(out.Weeks, wr)
            continue
        }
        products := map[string]bool{}
        for _, d := range demands {
            products[d.Product] = true
        }
        skus := make([]string, 0, len(products))
        for prod := range products {
            skus = append(skus, prod)
        }
        sort.Strings(skus)
        var caps []opt.Capacity
        for _, w := range ds.warehouses {
            eff, warns, err := proj.EffectiveCapacity(w.Name, skus, week, w.Capacity)
            for _, wrn := range warns {
                wr.Warnings = append(wr.Warnings, wrn.Error())
            }
            if err != nil {
                return model.PlanResult{}, err
            }
            caps = append(caps, opt.Capacity{Warehouse: w.Name, Units: eff})
        }
        sol, err := opt.Baseline(demands, ct, caps)
        if err != nil {
            return model.PlanResult{}, err
        }
        wr.Objective = sol.Objective
        for _, a := range sol.Allocations {
            wr.Allocations = append(wr.Allocations, model.AllocationRow{
                Product:       a.Product,
                Warehouse:     a.Warehouse,
                Channel:       a.Channel,
                State:         a.State,
                Units:         a.Units,
                UnitCost:      a.UnitCost,
                DistanceMiles: a.Distance,
                Cost:          a.Cost,
            })
        }
        for _, v := range sol.Violations {
            wr.Warnings = append(wr.Warnings,
                fmt.Sprintf("warehouse %s over capacity: allocated %.0f, capacity %.0f", v.Warehouse, v.Allocated, v.Capacity))
        }
        out.Weeks = append(out.Weeks, wr)
    }
    if err := p.Store.SavePlan(ctx, out); err != nil {
        return model.PlanResult{}, err
    }
    return out, nil
}

// Compare runs the customer-side pricing and the optimized solve
// concurrently and reduces them to the savings report.
func (p *Planner) Compare(ctx context.Context, weeks []int) (model.SavingsReport, error) {
    var (
        wg        sync.WaitGroup
        customer  model.PlanResult
        optimized model.PlanResult
        custErr   error
        optErr    error
    )
    wg.Add(2)
    go func() {
        defer wg.Done()
        customer, custErr = p.CustomerCost(ctx, model.BaselineRequest{Weeks: weeks})
    }()
    go func() {
        defer wg.Done()
        optimized, optErr = p.Optimize(ctx, model.OptimizeRequest{Weeks: weeks})
    }()
    wg.Wait()
    if custErr != nil {
        return model.SavingsReport{}, custErr
    }
    if optErr != nil {
        return model.SavingsReport{}, optErr
    }
    return Savings(customer, optimized), nil
}

// Projection reports the weekly availability of every tracked
// (warehouse, SKU) pair through the given week.
func (p *Planner) Projection(ctx context.Context, throughWeek int) ([]model.InventorySnapshot, []string, error) {
    ds, err := p.load(ctx)
    if err != nil {
        return nil, nil, err
    }
    if throughWeek < 1 {
        throughWeek = defaultWeeks[len(defaultWeeks)-1]
    }
    policy, err := p.Cfg.Policy()
    if err != nil {
        return nil, nil, err
    }
    proj := inventory.NewProjector(ds.snapshots, ds.schedule, policy)

    type pair struct{ warehouse, sku string }
    seen := map[pair]bool{}
    var pairs []pair
    add := func(warehouse, sku string) {
        k := pair{warehouse, sku}
        if !seen[k] {
            seen[k] = true
            pairs = append(pairs, k)
        }
    }
    for _, s := range ds.snapshots {
        add(s.Warehouse, s.SKU)
    }
    for _, s := range ds.schedule {
        add(s.Warehouse, s.SKU)
    }
    sort.Slice(pairs, func(i, j int) bool {
        if pairs[i].warehouse != pairs[j].warehouse {
            return pairs[i].warehouse < pairs[j].warehouse
        }
        return pairs[i].sku < pairs[j].sku
    })

    var rows []model.InventorySnapshot
    var warnings []string
    for _, pr := range pairs {
        for week := 1; week <= throughWeek; week++ {
            avail, warns, err := proj.Available(pr.warehouse, pr.sku, week)
            for _, w := range warns {
                warnings = append(warnings, w.Error())
            }
            if err != nil {
                return nil, warnings, err
            }
            rows = append(rows, model.InventorySnapshot{
                Warehouse: pr.warehouse, SKU: pr.sku, Week: week, Quantity: avail,
            })
        }
    }
    return rows, warnings, nil
}

// UnitCost prices one lane for ad-hoc inspection.
func (p *Planner) UnitCost(ctx context.Context, skuCode, carrierKey, vehicleName, warehouse, channel, state string) (model.AllocationRow, error) {
    ds, err := p.load(ctx)
    if err != nil {
        return model.AllocationRow{}, err
    }
    var wh *model.Warehouse
    for i := range ds.warehouses {
        if ds.warehouses[i].Name == warehouse {
            wh = &ds.warehouses[i]
            break
        }
    }
    if wh == nil {
        return model.AllocationRow{}, reqErrf("unknown warehouse %q", warehouse)
    }
    dc, ok := ds.dcs[dcKey{channel, state}]
    if !ok {
        return model.AllocationRow{}, reqErrf("unknown distribution center %s-%s", channel, state)
    }
    dist, err := p.Geo.Between(wh.Location, dc.Location)
    if err != nil {
        return model.AllocationRow{}, err
    }
    sku, ok := ds.skus[skuCode]
    if !ok {
        return model.AllocationRow{}, reqErrf("unknown sku %q", skuCode)
    }
    carrier, ok := ds.carriers[carrierKey]
    if !ok {
        return model.AllocationRow{}, reqErrf("unknown carrier %q", carrierKey)
    }
    vehicles := ds.vehicles
    if vehicleName != "" {
        vehicles = nil
        for _, v := range ds.vehicles {
            if v.Name == vehicleName {
                vehicles = []model.Vehicle{v}
            }
        }
        if vehicles == nil {
            return model.AllocationRow{}, reqErrf("unknown vehicle %q", vehicleName)
        }
    }
    unitCost, _, err := rate.UnitCostBestVehicle(sku, carrier, vehicles, dist)
    if err != nil {
        return model.AllocationRow{}, err
    }
    return model.AllocationRow{
        Product:       skuCode,
        Warehouse:     warehouse,
        Channel:       channel,
        State:         state,
        UnitCost:      unitCost,
        DistanceMiles: dist,
    }, nil
}
