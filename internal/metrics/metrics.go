package metrics

import (
    "sync"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the API
    Registry = prometheus.NewRegistry()
    // HTTPRequests counts requests by method, path, and status
    HTTPRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
        []string{"method", "path", "status"},
    )
    // HTTPDuration records request durations in seconds
    HTTPDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
        []string{"method", "path", "status"},
    )

    // Solves counts LP solves by rate mode and outcome status
    Solves = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "allocation_solves_total", Help: "Allocation solves by rate mode and status."},
        []string{"rate_mode", "status"},
    )
    // SolveDuration tracks solve wall time in milliseconds
    SolveDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "allocation_solve_duration_ms", Help: "Allocation solve duration in ms.", Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000}},
        []string{"rate_mode", "status"},
    )
    // Objective reports the last optimal objective per rate mode and week
    Objective = prometheus.NewGaugeVec(
        prometheus.GaugeOpts{Name: "allocation_objective_dollars", Help: "Last optimal allocation objective in dollars."},
        []string{"rate_mode", "week"},
    )
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(Solves)
        Registry.MustRegister(SolveDuration)
        Registry.MustRegister(Objective)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
