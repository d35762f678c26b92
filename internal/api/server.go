package api

import (
    "os"
    "strings"

    "walloc/internal/config"
    "walloc/internal/geo"
    "walloc/internal/plan"
    "walloc/internal/store"
)

type Server struct {
    Store   store.Store
    Planner *plan.Planner
    Broker  EventBroker
    Cfg     config.Config
}

// NewServer selects the store and broker from the environment: DATABASE_URL
// picks Postgres, SQLITE_PATH picks the local file, otherwise the seeded
// in-memory store. REDIS_URL upgrades both the distance cache and the event
// broker to shared Redis-backed ones.
func NewServer() (*Server, error) {
    cfg, err := config.Load()
    if err != nil {
        return nil, err
    }

    var st store.Store
    switch {
    case strings.TrimSpace(os.Getenv("DATABASE_URL")) != "":
        st, err = store.NewPostgres(os.Getenv("DATABASE_URL"))
        if err != nil {
            return nil, err
        }
    case strings.TrimSpace(os.Getenv("SQLITE_PATH")) != "":
        st, err = store.NewSQLiteSeeded(os.Getenv("SQLITE_PATH"))
        if err != nil {
            return nil, err
        }
    default:
        st = store.NewMemorySeeded()
    }

    var cache geo.Cache
    var broker EventBroker
    if os.Getenv("REDIS_URL") != "" {
        if rc, err := geo.NewRedisCache(os.Getenv("REDIS_URL")); err == nil { cache = rc }
        if rb, err := NewRedisBroker(); err == nil { broker = rb } else { broker = NewBroker() }
    } else {
        broker = NewBroker()
    }

    return &Server{
        Store:   st,
        Planner: plan.New(st, geo.NewService(cache), cfg),
        Broker:  broker,
        Cfg:     cfg,
    }, nil
}
