package store

import (
    "context"
    "errors"
    "testing"

    "walloc/internal/model"
)

func TestMemorySeededDataset(t *testing.T) {
    m := NewMemorySeeded()
    ctx := context.Background()

    ws, err := m.Warehouses(ctx)
    if err != nil || len(ws) != 4 {
        t.Fatalf("warehouses: %v %v", ws, err)
    }
    set, err := m.Settings(ctx)
    if err != nil || set.TMSCarrier != "TMS/LTL" {
        t.Fatalf("settings: %+v %v", set, err)
    }
    demand, _ := m.DemandForecast(ctx)
    if len(demand) != 8 {
        t.Fatalf("demand rows: %d", len(demand))
    }
}

func TestMemoryPutReplacesRecords(t *testing.T) {
    m := NewMemorySeeded()
    ctx := context.Background()

    if err := m.PutWarehouses(ctx, []model.Warehouse{{Name: "Reno", Capacity: 1}}); err != nil {
        t.Fatal(err)
    }
    ws, _ := m.Warehouses(ctx)
    if len(ws) != 1 || ws[0].Name != "Reno" {
        t.Fatalf("warehouses after put: %+v", ws)
    }
}

func TestMemoryReturnsCopies(t *testing.T) {
    m := NewMemorySeeded()
    ctx := context.Background()

    ws, _ := m.Warehouses(ctx)
    ws[0].Name = "mutated"
    again, _ := m.Warehouses(ctx)
    if again[0].Name == "mutated" {
        t.Fatal("store handed out its internal slice")
    }
}

func TestMemoryPlans(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    if _, err := m.GetPlan(ctx, "missing"); !errors.Is(err, ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }

    for _, id := range []string{"a", "b", "c"} {
        if err := m.SavePlan(ctx, model.PlanResult{ID: id, Kind: "optimized"}); err != nil {
            t.Fatal(err)
        }
    }
    p, err := m.GetPlan(ctx, "b")
    if err != nil || p.ID != "b" {
        t.Fatalf("get: %+v %v", p, err)
    }

    list, err := m.ListPlans(ctx, 0)
    if err != nil {
        t.Fatal(err)
    }
    if len(list) != 3 || list[0].ID != "c" || list[2].ID != "a" {
        t.Fatalf("newest first: %+v", list)
    }

    list, _ = m.ListPlans(ctx, 2)
    if len(list) != 2 || list[0].ID != "c" {
        t.Fatalf("limit: %+v", list)
    }
}

func TestMemorySavePlanUpserts(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    _ = m.SavePlan(ctx, model.PlanResult{ID: "a", Kind: "optimized"})
    _ = m.SavePlan(ctx, model.PlanResult{ID: "a", Kind: "customer"})
    list, _ := m.ListPlans(ctx, 0)
    if len(list) != 1 || list[0].Kind != "customer" {
        t.Fatalf("upsert: %+v", list)
    }
}
