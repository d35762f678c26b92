package opt

import (
	"context"
	"math"
	"strings"
	"testing"
)

// mapCosts is a fixed-cost CostProvider for tests.
type mapCosts map[DemandKey][]CostEntry

func (m mapCosts) UnitCosts(product, channel, state string) []CostEntry {
	return m[DemandKey{Product: product, Channel: channel, State: state}]
}

const perMile = 0.15 / 100 // $0.15 per unit per 100 miles

func lane(warehouse string, miles float64) CostEntry {
	return CostEntry{Warehouse: warehouse, UnitCost: miles * perMile, Distance: miles}
}

// Four DCs served by LA, Chicago and NY at a flat per-mile rate.
func scenarioFixture() ([]Demand, mapCosts) {
	demands := []Demand{
		{Product: "P", Channel: "DC1", State: "CA", Units: 5000},
		{Product: "P", Channel: "DC2", State: "IL", Units: 3000},
		{Product: "P", Channel: "DC3", State: "TX", Units: 2500},
		{Product: "P", Channel: "DC4", State: "NY", Units: 4000},
	}
	costs := mapCosts{
		{Product: "P", Channel: "DC1", State: "CA"}: {lane("Chicago", 900), lane("LA", 372), lane("NY", 1400)},
		{Product: "P", Channel: "DC2", State: "IL"}: {lane("Chicago", 250), lane("LA", 1000), lane("NY", 800)},
		{Product: "P", Channel: "DC3", State: "TX"}: {lane("Chicago", 600), lane("LA", 920), lane("NY", 1100)},
		{Product: "P", Channel: "DC4", State: "NY"}: {lane("Chicago", 450), lane("LA", 1300), lane("NY", 100)},
	}
	return demands, costs
}

func caps(la, chicago, ny float64) []Capacity {
	return []Capacity{
		{Warehouse: "LA", Units: la},
		{Warehouse: "Chicago", Units: chicago},
		{Warehouse: "NY", Units: ny},
	}
}

func solve(t *testing.T, demands []Demand, costs CostProvider, capacities []Capacity) Solution {
	t.Helper()
	p, err := BuildProblem(demands, costs, capacities)
	if err != nil {
		t.Fatal(err)
	}
	return Solve(context.Background(), p, SolverConfig{})
}

// With ample capacity everywhere, each DC takes its nearest warehouse and
// the optimum matches the greedy baseline.
func TestSolveAmpleCapacity(t *testing.T) {
	demands, costs := scenarioFixture()
	sol := solve(t, demands, costs, caps(10000, 8000, 12000))

	if sol.Status != StatusOptimal {
		t.Fatalf("status %s: %s", sol.Status, sol.Detail)
	}
	if math.Abs(sol.Objective-6765) > 1e-6 {
		t.Fatalf("objective = %.6f, want 6765", sol.Objective)
	}

	base, err := Baseline(demands, costs, caps(10000, 8000, 12000))
	if err != nil {
		t.Fatal(err)
	}
	if !base.Feasible {
		t.Fatal("baseline should fit within ample capacity")
	}
	if math.Abs(sol.Objective-base.Objective) > 1e-6 {
		t.Fatalf("optimal %.2f should equal baseline %.2f when capacity never binds", sol.Objective, base.Objective)
	}
}

// Squeezing Chicago to 3500 forces 2000 Texas units onto LA and raises the
// optimum by exactly those units' detour cost.
func TestSolveTightCapacityReallocates(t *testing.T) {
	demands, costs := scenarioFixture()
	sol := solve(t, demands, costs, caps(10000, 3500, 12000))

	if sol.Status != StatusOptimal {
		t.Fatalf("status %s: %s", sol.Status, sol.Detail)
	}
	if math.Abs(sol.Objective-7725) > 1e-6 {
		t.Fatalf("objective = %.6f, want 7725", sol.Objective)
	}

	fromChicago := 0.0
	for _, a := range sol.Allocations {
		if a.Warehouse == "Chicago" {
			fromChicago += a.Units
		}
	}
	if math.Abs(fromChicago-3500) > 1e-6 {
		t.Fatalf("Chicago shipped %.3f, want exactly 3500", fromChicago)
	}
}

func TestSolveInfeasibleWhenDemandExceedsCapacity(t *testing.T) {
	demands, costs := scenarioFixture()
	sol := solve(t, demands, costs, caps(5000, 3000, 4000)) // 12000 < 14500 demanded

	if sol.Status != StatusInfeasible {
		t.Fatalf("status %s, want infeasible", sol.Status)
	}
	if !strings.Contains(sol.Detail, "demand") {
		t.Fatalf("detail should name the binding constraint class: %q", sol.Detail)
	}
	if len(sol.Allocations) != 0 {
		t.Fatal("infeasible solution must carry no allocations")
	}
}

// Conservation and capacity respect, checked on the binding scenario.
func TestSolveInvariants(t *testing.T) {
	demands, costs := scenarioFixture()
	capacities := caps(10000, 3500, 12000)
	sol := solve(t, demands, costs, capacities)
	if sol.Status != StatusOptimal {
		t.Fatalf("status %s", sol.Status)
	}

	byGroup := map[DemandKey]float64{}
	byWarehouse := map[string]float64{}
	recomputed := 0.0
	for _, a := range sol.Allocations {
		byGroup[DemandKey{Product: a.Product, Channel: a.Channel, State: a.State}] += a.Units
		byWarehouse[a.Warehouse] += a.Units
		recomputed += a.Units * a.UnitCost
	}
	for _, d := range demands {
		got := byGroup[DemandKey{Product: d.Product, Channel: d.Channel, State: d.State}]
		if math.Abs(got-d.Units) > 1e-3 {
			t.Fatalf("group %s %s-%s shipped %.4f, want %.0f", d.Product, d.Channel, d.State, got, d.Units)
		}
	}
	for _, c := range capacities {
		if byWarehouse[c.Warehouse] > c.Units+1e-6 {
			t.Fatalf("warehouse %s shipped %.4f over capacity %.0f", c.Warehouse, byWarehouse[c.Warehouse], c.Units)
		}
	}
	if math.Abs(recomputed-sol.Objective) > 1e-6 {
		t.Fatalf("recomputed cost %.6f != objective %.6f", recomputed, sol.Objective)
	}
}

// Identical scenarios must produce identical plans, allocation for
// allocation.
func TestSolveDeterministic(t *testing.T) {
	demands, costs := scenarioFixture()
	a := solve(t, demands, costs, caps(10000, 3500, 12000))
	b := solve(t, demands, costs, caps(10000, 3500, 12000))

	if a.Objective != b.Objective {
		t.Fatalf("objectives differ: %v vs %v", a.Objective, b.Objective)
	}
	if len(a.Allocations) != len(b.Allocations) {
		t.Fatalf("allocation counts differ: %d vs %d", len(a.Allocations), len(b.Allocations))
	}
	for i := range a.Allocations {
		if a.Allocations[i] != b.Allocations[i] {
			t.Fatalf("allocation %d differs: %+v vs %+v", i, a.Allocations[i], b.Allocations[i])
		}
	}
}

// The epsilon filter drops noise lanes from the report but leaves the
// objective untouched.
func TestSolveEpsilonFilter(t *testing.T) {
	demands := []Demand{
		{Product: "P", Channel: "DC1", State: "CA", Units: 0.001},
		{Product: "P", Channel: "DC2", State: "IL", Units: 1000},
	}
	costs := mapCosts{
		{Product: "P", Channel: "DC1", State: "CA"}: {lane("LA", 372)},
		{Product: "P", Channel: "DC2", State: "IL"}: {lane("Chicago", 250)},
	}
	sol := solve(t, demands, costs, nil)
	if sol.Status != StatusOptimal {
		t.Fatalf("status %s", sol.Status)
	}
	for _, a := range sol.Allocations {
		if a.Channel == "DC1" {
			t.Fatalf("noise allocation survived the filter: %+v", a)
		}
	}
	want := 0.001*372*perMile + 1000*250*perMile
	if math.Abs(sol.Objective-want) > 1e-9 {
		t.Fatalf("objective = %v, want solver optimum %v including the filtered lane", sol.Objective, want)
	}
}

func TestSolveShipRequired(t *testing.T) {
	demands := []Demand{{Product: "P", Channel: "DC1", State: "CA", Units: 5000}}
	costs := mapCosts{
		{Product: "P", Channel: "DC1", State: "CA"}: {lane("LA", 372)},
	}
	sol := solve(t, demands, costs, []Capacity{{Warehouse: "LA", Units: 6000}})
	if sol.Status != StatusOptimal {
		t.Fatalf("status %s", sol.Status)
	}
	if sol.Allocations[0].ShipRequired != 0 {
		t.Fatalf("within availability, shipRequired = %v", sol.Allocations[0].ShipRequired)
	}
}

func TestSolveEmptyProblem(t *testing.T) {
	sol := Solve(context.Background(), &Problem{}, SolverConfig{})
	if sol.Status != StatusInfeasible {
		t.Fatalf("status %s, want infeasible", sol.Status)
	}
}
