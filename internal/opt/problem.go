package opt

import (
	"fmt"
	"math"
)

// Demand is one forecast group: Units must be met exactly.
type Demand struct {
	Product string
	Channel string
	State   string
	Units   float64
}

// DemandKey identifies a demand group.
type DemandKey struct {
	Product string
	Channel string
	State   string
}

func (k DemandKey) String() string {
	return fmt.Sprintf("%s %s-%s", k.Product, k.Channel, k.State)
}

// Capacity bounds the total shipped out of one warehouse for the planning
// week. This is the effective (projected) capacity, not the declared one.
type Capacity struct {
	Warehouse string
	Units     float64
}

// CostEntry is a priced lane from one warehouse to the demand group's DC.
type CostEntry struct {
	Warehouse string
	UnitCost  float64
	Distance  float64
}

// CostProvider yields the candidate lanes for a demand group. Lanes with no
// valid rate or distance are simply absent: exclusion, never a zero price.
// Implementations must return entries in a stable order so identical inputs
// build identical matrices.
type CostProvider interface {
	UnitCosts(product, channel, state string) []CostEntry
}

// EmptyFeasibleSetError means a demand group has no candidate warehouse at
// all under the current rate/vehicle configuration. Raised before the solver
// runs; a solve would be guaranteed infeasible.
type EmptyFeasibleSetError struct {
	Group DemandKey
}

func (e *EmptyFeasibleSetError) Error() string {
	return fmt.Sprintf("no feasible warehouse for demand group %s", e.Group)
}

// Variable is one decision variable: units shipped warehouse -> DC for a
// product.
type Variable struct {
	Product   string
	Warehouse string
	Channel   string
	State     string
	Demand    float64
	UnitCost  float64
	Distance  float64
	Available float64 // effective capacity of the source warehouse
}

// Problem is the assembled transportation LP:
//
//	minimize  C'x
//	s.t.      Aeq x  = Beq   (one row per demand group)
//	          Aub x <= Bub   (one row per capacitated warehouse)
//	          x >= 0
type Problem struct {
	Vars []Variable
	C    []float64
	Aeq  [][]float64
	Beq  []float64
	Aub  [][]float64
	Bub  []float64

	Groups     []DemandKey
	Capacities []Capacity
}

// BuildProblem enumerates candidate variables for every demand group and
// assembles the constraint system. caps may be nil to build an uncapacitated
// problem (the customer auto plan deliberately ignores capacity).
func BuildProblem(demands []Demand, costs CostProvider, caps []Capacity) (*Problem, error) {
	p := &Problem{}

	seen := map[DemandKey]bool{}
	for _, d := range demands {
		k := DemandKey{d.Product, d.Channel, d.State}
		if seen[k] {
			continue
		}
		seen[k] = true
		p.Groups = append(p.Groups, k)

		entries := costs.UnitCosts(d.Product, d.Channel, d.State)
		added := 0
		for _, e := range entries {
			if math.IsNaN(e.UnitCost) || math.IsInf(e.UnitCost, 0) || e.UnitCost < 0 {
				continue
			}
			p.Vars = append(p.Vars, Variable{
				Product:   d.Product,
				Warehouse: e.Warehouse,
				Channel:   d.Channel,
				State:     d.State,
				Demand:    d.Units,
				UnitCost:  e.UnitCost,
				Distance:  e.Distance,
				Available: math.Inf(1), // unbounded until a capacity row claims it
			})
			added++
		}
		if added == 0 {
			return nil, &EmptyFeasibleSetError{Group: k}
		}
	}

	n := len(p.Vars)
	p.C = make([]float64, n)
	for i, v := range p.Vars {
		p.C[i] = v.UnitCost
	}

	// One equality row per demand group: sum of its lanes == demand.
	for _, g := range p.Groups {
		row := make([]float64, n)
		var units float64
		for i, v := range p.Vars {
			if v.Product == g.Product && v.Channel == g.Channel && v.State == g.State {
				row[i] = 1
				units = v.Demand
			}
		}
		p.Aeq = append(p.Aeq, row)
		p.Beq = append(p.Beq, units)
	}

	// One inequality row per warehouse that both has a capacity bound and
	// appears in at least one variable.
	for _, c := range caps {
		row := make([]float64, n)
		used := false
		for i := range p.Vars {
			if p.Vars[i].Warehouse == c.Warehouse {
				row[i] = 1
				p.Vars[i].Available = c.Units
				used = true
			}
		}
		if !used {
			continue
		}
		p.Aub = append(p.Aub, row)
		p.Bub = append(p.Bub, c.Units)
		p.Capacities = append(p.Capacities, c)
	}
	return p, nil
}

// PartitionByProduct splits demand rows into independent per-product
// sub-problems. Capacities are projected per (warehouse, product), so the
// sub-problems share no constraint rows and may be solved in parallel.
func PartitionByProduct(demands []Demand) map[string][]Demand {
	out := map[string][]Demand{}
	for _, d := range demands {
		out[d.Product] = append(out[d.Product], d)
	}
	return out
}

// TotalDemand is the sum of units across distinct demand groups.
func (p *Problem) TotalDemand() float64 {
	t := 0.0
	for _, b := range p.Beq {
		t += b
	}
	return t
}

// TotalCapacity is the sum of effective capacity rows. Only meaningful when
// the problem is capacitated.
func (p *Problem) TotalCapacity() float64 {
	t := 0.0
	for _, b := range p.Bub {
		t += b
	}
	return t
}
