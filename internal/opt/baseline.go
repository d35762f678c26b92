package opt

// Baseline computes the naive nearest-warehouse reference plan: every demand
// group goes entirely to its cheapest lane, capacity ignored. It stands in
// for the unoptimized manual process, so overruns mark the solution
// infeasible instead of failing it; the cost figure still feeds the savings
// report. Ties break on the lexicographically smaller warehouse name so the
// reference plan is canonical.
func Baseline(demands []Demand, costs CostProvider, caps []Capacity) (Solution, error) {
	capBy := map[string]float64{}
	for _, c := range caps {
		capBy[c.Warehouse] = c.Units
	}

	sol := Solution{Status: StatusOptimal, Feasible: true}
	shipped := map[string]float64{}
	seen := map[DemandKey]bool{}
	order := []string{}

	for _, d := range demands {
		k := DemandKey{d.Product, d.Channel, d.State}
		if seen[k] {
			continue
		}
		seen[k] = true
		entries := costs.UnitCosts(d.Product, d.Channel, d.State)
		best := -1
		for i, e := range entries {
			if best < 0 || e.UnitCost < entries[best].UnitCost ||
				(e.UnitCost == entries[best].UnitCost && e.Warehouse < entries[best].Warehouse) {
				best = i
			}
		}
		if best < 0 {
			return Solution{}, &EmptyFeasibleSetError{Group: k}
		}
		e := entries[best]
		sol.Allocations = append(sol.Allocations, Allocation{
			Product:   d.Product,
			Warehouse: e.Warehouse,
			Channel:   d.Channel,
			State:     d.State,
			Units:     d.Units,
			UnitCost:  e.UnitCost,
			Distance:  e.Distance,
			Cost:      d.Units * e.UnitCost,
		})
		sol.Objective += d.Units * e.UnitCost
		if _, ok := shipped[e.Warehouse]; !ok {
			order = append(order, e.Warehouse)
		}
		shipped[e.Warehouse] += d.Units
	}

	for _, wh := range order {
		bound, ok := capBy[wh]
		if !ok {
			continue
		}
		if shipped[wh] > bound {
			sol.Feasible = false
			sol.Violations = append(sol.Violations, CapacityViolation{
				Warehouse: wh,
				Allocated: shipped[wh],
				Capacity:  bound,
			})
		}
	}
	return sol, nil
}
