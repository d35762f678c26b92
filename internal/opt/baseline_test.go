package opt

import (
	"errors"
	"math"
	"testing"
)

func TestBaselineNearestWarehouse(t *testing.T) {
	demands, costs := scenarioFixture()
	sol, err := Baseline(demands, costs, caps(10000, 8000, 12000))
	if err != nil {
		t.Fatal(err)
	}
	if !sol.Feasible || len(sol.Violations) != 0 {
		t.Fatalf("ample capacity should not be violated: %+v", sol.Violations)
	}
	if math.Abs(sol.Objective-6765) > 1e-6 {
		t.Fatalf("objective = %.6f, want 6765", sol.Objective)
	}
	want := map[string]string{"DC1": "LA", "DC2": "Chicago", "DC3": "Chicago", "DC4": "NY"}
	for _, a := range sol.Allocations {
		if a.Warehouse != want[a.Channel] {
			t.Fatalf("%s routed to %s, want %s", a.Channel, a.Warehouse, want[a.Channel])
		}
	}
}

// The baseline never splits demand, so a tight warehouse is overrun and
// flagged rather than rerouted.
func TestBaselineFlagsOverrun(t *testing.T) {
	demands, costs := scenarioFixture()
	sol, err := Baseline(demands, costs, caps(10000, 3500, 12000))
	if err != nil {
		t.Fatal(err)
	}
	if sol.Feasible {
		t.Fatal("overrun must mark the plan infeasible")
	}
	if len(sol.Violations) != 1 {
		t.Fatalf("violations: %+v", sol.Violations)
	}
	v := sol.Violations[0]
	if v.Warehouse != "Chicago" || v.Allocated != 5500 || v.Capacity != 3500 {
		t.Fatalf("bad violation: %+v", v)
	}
	// Cost still reported for the savings comparison.
	if math.Abs(sol.Objective-6765) > 1e-6 {
		t.Fatalf("objective = %.6f, want 6765", sol.Objective)
	}
}

func TestBaselineTieBreaksLexicographically(t *testing.T) {
	demands := []Demand{{Product: "P", Channel: "DC1", State: "CA", Units: 10}}
	costs := mapCosts{
		{Product: "P", Channel: "DC1", State: "CA"}: {
			{Warehouse: "Zeta", UnitCost: 1, Distance: 100},
			{Warehouse: "Alpha", UnitCost: 1, Distance: 100},
		},
	}
	sol, err := Baseline(demands, costs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sol.Allocations[0].Warehouse != "Alpha" {
		t.Fatalf("tie went to %s, want Alpha", sol.Allocations[0].Warehouse)
	}
}

func TestBaselineEmptyGroup(t *testing.T) {
	demands := []Demand{{Product: "P", Channel: "DC9", State: "ZZ", Units: 10}}
	_, err := Baseline(demands, mapCosts{}, nil)
	var efs *EmptyFeasibleSetError
	if !errors.As(err, &efs) {
		t.Fatalf("want EmptyFeasibleSetError, got %v", err)
	}
}
