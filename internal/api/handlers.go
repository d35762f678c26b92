package api

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"

    "walloc/internal/geo"
    "walloc/internal/integrations"
    "walloc/internal/model"
    "walloc/internal/opt"
    "walloc/internal/plan"
    "walloc/internal/rate"
    "walloc/internal/store"
)

// recordEndpoint builds the GET/PUT handler shared by every dataset resource.
// PUT replaces the whole record set and announces the change on the broker.
func recordEndpoint[T any](s *Server, name string,
    list func(ctx context.Context) ([]T, error),
    put func(ctx context.Context, rows []T) error) http.HandlerFunc {

    return func(w http.ResponseWriter, r *http.Request) {
        switch r.Method {
        case http.MethodGet:
            rows, err := list(r.Context())
            if err != nil {
                writeProblem(w, http.StatusInternalServerError, "List failed", err.Error(), r.URL.Path)
                return
            }
            if rows == nil { rows = []T{} }
            writeJSON(w, http.StatusOK, map[string]any{"items": rows})
        case http.MethodPut:
            var body struct {
                Items []T `json:"items"`
            }
            if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
                writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
                return
            }
            if err := put(r.Context(), body.Items); err != nil {
                writeProblem(w, http.StatusInternalServerError, "Save failed", err.Error(), r.URL.Path)
                return
            }
            s.Broker.Publish(planTopic, PlanEvent{Type: "dataset.updated", Data: map[string]any{"resource": name, "count": len(body.Items)}})
            writeJSON(w, http.StatusOK, map[string]any{"saved": len(body.Items)})
        default:
            w.WriteHeader(http.StatusMethodNotAllowed)
        }
    }
}

func (s *Server) WarehousesHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "warehouses", s.Store.Warehouses, s.Store.PutWarehouses)(w, r)
}

func (s *Server) DistributionCentersHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "distribution-centers", s.Store.DistributionCenters, s.Store.PutDistributionCenters)(w, r)
}

func (s *Server) SKUsHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "skus", s.Store.SKUs, s.Store.PutSKUs)(w, r)
}

func (s *Server) CarriersHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "carriers", s.Store.Carriers, s.Store.PutCarriers)(w, r)
}

func (s *Server) VehiclesHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "vehicles", s.Store.Vehicles, s.Store.PutVehicles)(w, r)
}

func (s *Server) SnapshotsHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "inventory-snapshots", s.Store.Snapshots, s.Store.PutSnapshots)(w, r)
}

func (s *Server) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "inventory-schedule", s.Store.Schedule, s.Store.PutSchedule)(w, r)
}

func (s *Server) DemandHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "demand", s.Store.DemandForecast, s.Store.PutDemandForecast)(w, r)
}

func (s *Server) CustomerPlanHandler(w http.ResponseWriter, r *http.Request) {
    recordEndpoint(s, "customer-plan", s.Store.CustomerPlan, s.Store.PutCustomerPlan)(w, r)
}

// SettingsHandler handles GET/PUT /v1/settings
func (s *Server) SettingsHandler(w http.ResponseWriter, r *http.Request) {
    switch r.Method {
    case http.MethodGet:
        set, err := s.Store.Settings(r.Context())
        if err != nil {
            writeProblem(w, http.StatusInternalServerError, "Load settings failed", err.Error(), r.URL.Path)
            return
        }
        writeJSON(w, http.StatusOK, set)
    case http.MethodPut:
        var set model.Settings
        if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
            writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
            return
        }
        if set.MarketRatePer100Mi < 0 || set.TMSRatePer100Mi < 0 {
            writeProblem(w, http.StatusBadRequest, "Invalid settings", "rates must be >= 0", r.URL.Path)
            return
        }
        if err := s.Store.SaveSettings(r.Context(), set); err != nil {
            writeProblem(w, http.StatusInternalServerError, "Save settings failed", err.Error(), r.URL.Path)
            return
        }
        writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

// writePlanError maps planner failures: bad scenario data or requests are the
// caller's problem, unpriceable/unsatisfiable scenarios are unprocessable,
// everything else is ours.
func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
    var reqErr *plan.RequestError
    var emptyErr *opt.EmptyFeasibleSetError
    var valErr *geo.ValidationError
    var capErr *rate.CapacityError
    var rateErr *rate.NoApplicableRateError
    switch {
    case errors.As(err, &reqErr), errors.As(err, &valErr):
        writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
    case errors.As(err, &emptyErr), errors.As(err, &capErr), errors.As(err, &rateErr):
        writeProblem(w, http.StatusUnprocessableEntity, "Unsolvable scenario", err.Error(), r.URL.Path)
    default:
        writeProblem(w, http.StatusInternalServerError, "Planning failed", err.Error(), r.URL.Path)
    }
}

// OptimizeHandler handles POST /v1/optimize
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var req model.OptimizeRequest
    if r.ContentLength != 0 {
        if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
            writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
            return
        }
    }
    if err := validateOptimizeRequest(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
        return
    }
    res, err := s.Planner.Optimize(r.Context(), req)
    if err != nil {
        writePlanError(w, r, err)
        return
    }
    s.publishPlan(res)
    writeJSON(w, http.StatusOK, res)
}

// BaselineHandler handles POST /v1/baseline
func (s *Server) BaselineHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var req model.BaselineRequest
    if r.ContentLength != 0 {
        if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
            writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
            return
        }
    }
    if err := validateBaselineRequest(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid baseline request", err.Error(), r.URL.Path)
        return
    }
    res, err := s.Planner.Baseline(r.Context(), req)
    if err != nil {
        writePlanError(w, r, err)
        return
    }
    s.publishPlan(res)
    writeJSON(w, http.StatusOK, res)
}

// CustomerCostHandler handles POST /v1/customer-cost
func (s *Server) CustomerCostHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var req model.BaselineRequest
    if r.ContentLength != 0 {
        if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
            writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
            return
        }
    }
    if err := validateBaselineRequest(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid customer cost request", err.Error(), r.URL.Path)
        return
    }
    res, err := s.Planner.CustomerCost(r.Context(), req)
    if err != nil {
        writePlanError(w, r, err)
        return
    }
    s.publishPlan(res)
    writeJSON(w, http.StatusOK, res)
}

// CompareHandler handles GET /v1/compare?weeks=3,4
func (s *Server) CompareHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    weeks, err := parseWeeks(r.URL.Query().Get("weeks"))
    if err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid weeks", err.Error(), r.URL.Path)
        return
    }
    report, err := s.Planner.Compare(r.Context(), weeks)
    if err != nil {
        writePlanError(w, r, err)
        return
    }
    writeJSON(w, http.StatusOK, report)
}

// ProjectionHandler handles GET /v1/inventory/projection?week=4
func (s *Server) ProjectionHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    week := 0
    if v := r.URL.Query().Get("week"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil || n < 1 {
            writeProblem(w, http.StatusBadRequest, "Invalid week", "week must be a positive integer", r.URL.Path)
            return
        }
        week = n
    }
    rows, warnings, err := s.Planner.Projection(r.Context(), week)
    if err != nil {
        writePlanError(w, r, err)
        return
    }
    if rows == nil { rows = []model.InventorySnapshot{} }
    writeJSON(w, http.StatusOK, map[string]any{"items": rows, "warnings": warnings})
}

// UnitCostHandler handles GET /v1/costs/unit
func (s *Server) UnitCostHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    q := r.URL.Query()
    for _, key := range []string{"sku", "carrier", "warehouse", "channel", "state"} {
        if q.Get(key) == "" {
            writeProblem(w, http.StatusBadRequest, "Missing parameter", key+" is required", r.URL.Path)
            return
        }
    }
    row, err := s.Planner.UnitCost(r.Context(), q.Get("sku"), q.Get("carrier"), q.Get("vehicle"),
        q.Get("warehouse"), q.Get("channel"), q.Get("state"))
    if err != nil {
        writePlanError(w, r, err)
        return
    }
    writeJSON(w, http.StatusOK, row)
}

// PlansHandler handles GET /v1/plans
func (s *Server) PlansHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    limit := 0
    if v := r.URL.Query().Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
    items, err := s.Store.ListPlans(r.Context(), limit)
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "List plans failed", err.Error(), r.URL.Path)
        return
    }
    if items == nil { items = []model.PlanResult{} }
    writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// PlanByIDHandler handles GET /v1/plans/{id}
func (s *Server) PlanByIDHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    id := strings.TrimPrefix(r.URL.Path, "/v1/plans/")
    if id == "" || strings.Contains(id, "/") {
        writeProblem(w, http.StatusNotFound, "Not Found", "missing plan id", r.URL.Path)
        return
    }
    p, err := s.Store.GetPlan(r.Context(), id)
    if errors.Is(err, store.ErrNotFound) {
        writeProblem(w, http.StatusNotFound, "Not Found", "no such plan", r.URL.Path)
        return
    }
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "Get plan failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, p)
}

// PlanMetricsHandler handles GET /v1/admin/plan-metrics?planId=...
func (s *Server) PlanMetricsHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    planID := r.URL.Query().Get("planId")
    if planID == "" {
        writeProblem(w, http.StatusBadRequest, "Missing parameter", "planId is required", r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{"planId": planID, "runs": opt.GetRuns(planID)})
}

// ImportHandler handles POST /v1/import/{warehouses|demand|schedule} with a
// text/csv body.
func (s *Server) ImportHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    resource := strings.TrimPrefix(r.URL.Path, "/v1/import/")
    var count int
    var err error
    switch resource {
    case "warehouses":
        var rows []model.Warehouse
        if rows, err = integrations.ParseWarehouses(r.Body); err == nil {
            count = len(rows)
            err = s.Store.PutWarehouses(r.Context(), rows)
        }
    case "demand":
        var rows []model.DemandRow
        if rows, err = integrations.ParseDemand(r.Body); err == nil {
            count = len(rows)
            err = s.Store.PutDemandForecast(r.Context(), rows)
        }
    case "schedule":
        var rows []model.ScheduleEntry
        if rows, err = integrations.ParseSchedule(r.Body); err == nil {
            count = len(rows)
            err = s.Store.PutSchedule(r.Context(), rows)
        }
    default:
        writeProblem(w, http.StatusNotFound, "Not Found", "importable resources: warehouses, demand, schedule", r.URL.Path)
        return
    }
    if err != nil {
        var parseErr *integrations.ParseError
        if errors.As(err, &parseErr) {
            writeProblem(w, http.StatusBadRequest, "Invalid CSV", err.Error(), r.URL.Path)
            return
        }
        writeProblem(w, http.StatusInternalServerError, "Import failed", err.Error(), r.URL.Path)
        return
    }
    s.Broker.Publish(planTopic, PlanEvent{Type: "dataset.updated", Data: map[string]any{"resource": resource, "count": count}})
    writeJSON(w, http.StatusOK, map[string]any{"imported": count})
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler handles GET /readyz; ready means the store answers.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    if _, err := s.Store.Warehouses(r.Context()); err != nil {
        writeProblem(w, http.StatusServiceUnavailable, "Not ready", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) publishPlan(p model.PlanResult) {
    data := map[string]any{"planId": p.ID, "kind": p.Kind, "rateMode": p.RateMode}
    for _, wk := range p.Weeks {
        data[fmt.Sprintf("week%dStatus", wk.Week)] = wk.Status
    }
    s.Broker.Publish(planTopic, PlanEvent{Type: "plan.completed", Data: data})
}

func parseWeeks(v string) ([]int, error) {
    if v == "" {
        return nil, nil
    }
    var out []int
    for _, part := range strings.Split(v, ",") {
        n, err := strconv.Atoi(strings.TrimSpace(part))
        if err != nil || n < 1 {
            return nil, fmt.Errorf("weeks must be positive integers, got %q", part)
        }
        out = append(out, n)
    }
    return out, nil
}
