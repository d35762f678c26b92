package api

import (
    "net/http"
    "os"
    "strconv"

    "golang.org/x/time/rate"
)

// RateLimit applies a process-wide token bucket to the API. RATE_LIMIT_RPS
// tunes it; zero disables the middleware.
func RateLimit(next http.Handler) http.Handler {
    rps := 50.0
    if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
        if f, err := strconv.ParseFloat(v, 64); err == nil { rps = f }
    }
    if rps <= 0 {
        return next
    }
    limiter := rate.NewLimiter(rate.Limit(rps), int(rps)*2)
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !limiter.Allow() {
            writeProblem(w, http.StatusTooManyRequests, "Rate limited", "try again shortly", r.URL.Path)
            return
        }
        next.ServeHTTP(w, r)
    })
}
