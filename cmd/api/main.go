package main

import (
    "bufio"
    "errors"
    "log"
    "net"
    "net/http"
    "os"
    "strconv"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "walloc/internal/api"
    "walloc/internal/buildinfo"
    "walloc/internal/metrics"
)

func main() {
    srvDeps, err := api.NewServer()
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }

    metrics.RegisterDefault()

    mux := http.NewServeMux()

    // Dataset records
    mux.HandleFunc("/v1/warehouses", srvDeps.WarehousesHandler)
    mux.HandleFunc("/v1/distribution-centers", srvDeps.DistributionCentersHandler)
    mux.HandleFunc("/v1/skus", srvDeps.SKUsHandler)
    mux.HandleFunc("/v1/carriers", srvDeps.CarriersHandler)
    mux.HandleFunc("/v1/vehicles", srvDeps.VehiclesHandler)
    mux.HandleFunc("/v1/inventory/snapshots", srvDeps.SnapshotsHandler)
    mux.HandleFunc("/v1/inventory/schedule", srvDeps.ScheduleHandler)
    mux.HandleFunc("/v1/demand", srvDeps.DemandHandler)
    mux.HandleFunc("/v1/customer-plan", srvDeps.CustomerPlanHandler)
    mux.HandleFunc("/v1/settings", srvDeps.SettingsHandler)

    // Planning
    mux.HandleFunc("/v1/optimize", srvDeps.OptimizeHandler)
    mux.HandleFunc("/v1/baseline", srvDeps.BaselineHandler)
    mux.HandleFunc("/v1/customer-cost", srvDeps.CustomerCostHandler)
    mux.HandleFunc("/v1/compare", srvDeps.CompareHandler)
    mux.HandleFunc("/v1/inventory/projection", srvDeps.ProjectionHandler)
    mux.HandleFunc("/v1/costs/unit", srvDeps.UnitCostHandler)

    // Saved plans and the live stream
    mux.HandleFunc("/v1/plans", srvDeps.PlansHandler)
    mux.HandleFunc("/v1/plans/stream", srvDeps.PlanStreamHandler)
    mux.HandleFunc("/v1/plans/", srvDeps.PlanByIDHandler)

    // Import
    mux.HandleFunc("/v1/import/", srvDeps.ImportHandler)

    // Admin
    mux.HandleFunc("/v1/admin/plan-metrics", srvDeps.PlanMetricsHandler)

    // Health and observability
    mux.HandleFunc("/healthz", srvDeps.HealthHandler)
    mux.HandleFunc("/readyz", srvDeps.ReadyHandler)
    mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json")
        _, _ = w.Write([]byte(`{"version":"` + buildinfo.Version + `"}`))
    })
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

    addr := ":8080"
    if v := os.Getenv("PORT"); v != "" {
        addr = ":" + v
    }

    srv := &http.Server{
        Addr:              addr,
        Handler:           api.RateLimit(logMiddleware(metricsMiddleware(mux))),
        ReadHeaderTimeout: 5 * time.Second,
    }

    log.Printf("API listening on %s", addr)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Fatalf("server error: %v", err)
    }
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        dur := time.Since(start)
        log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
    })
}

type statusWriter struct {
    http.ResponseWriter
    status int
}

func (w *statusWriter) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

// Hijack keeps the WebSocket upgrade on /v1/plans/stream working.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
    h, ok := w.ResponseWriter.(http.Hijacker)
    if !ok {
        return nil, nil, errors.New("response writer does not support hijacking")
    }
    return h.Hijack()
}

func metricsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
        start := time.Now()
        next.ServeHTTP(sw, r)
        status := strconv.Itoa(sw.status)
        metrics.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
        metrics.HTTPDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
    })
}
