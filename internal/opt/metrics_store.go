package opt

import "sync"

type runKey struct {
    PlanID   string
    Week     int
    RateMode string
}

// RunMetrics captures one solve for the admin metrics endpoint.
type RunMetrics struct {
    Status       Status  `json:"status"`
    Objective    float64 `json:"objective"`
    Vars         int     `json:"vars"`
    DemandGroups int     `json:"demandGroups"`
    CapacityRows int     `json:"capacityRows"`
    DurationMs   int64   `json:"durationMs"`
}

var (
    mu    sync.Mutex
    store = map[runKey]RunMetrics{}
)

func RecordRun(planID string, week int, rateMode string, m RunMetrics) {
    mu.Lock()
    store[runKey{PlanID: planID, Week: week, RateMode: rateMode}] = m
    mu.Unlock()
}

func GetRuns(planID string) map[int]map[string]RunMetrics {
    mu.Lock()
    defer mu.Unlock()
    out := map[int]map[string]RunMetrics{}
    for k, v := range store {
        if k.PlanID != planID {
            continue
        }
        if out[k.Week] == nil {
            out[k.Week] = map[string]RunMetrics{}
        }
        out[k.Week][k.RateMode] = v
    }
    return out
}
