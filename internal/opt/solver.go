package opt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the solver outcome.
type Status string

const (
	StatusOptimal          Status = "optimal"
	StatusInfeasible       Status = "infeasible"
	StatusNumericalFailure Status = "numerical_failure"
)

// Allocation is one reported lane of a solution, after noise filtering.
type Allocation struct {
	Product      string
	Warehouse    string
	Channel      string
	State        string
	Units        float64
	UnitCost     float64
	Distance     float64
	Cost         float64
	ShipRequired float64 // units beyond the warehouse's projected availability
}

// CapacityViolation records a warehouse overrun. Only the baseline
// comparator produces these; LP solutions respect capacity by construction.
type CapacityViolation struct {
	Warehouse string
	Allocated float64
	Capacity  float64
}

// Solution is the result of a solve or a baseline computation. Objective is
// always the solver's own optimum, never recomputed from the filtered
// allocation vector.
type Solution struct {
	Status      Status
	Feasible    bool
	Objective   float64
	Allocations []Allocation
	Violations  []CapacityViolation
	Detail      string // names the binding constraint class on failure
}

// SolverConfig tunes the LP solve. Zero values take the defaults.
type SolverConfig struct {
	Tolerance  float64       // simplex optimality tolerance, default 1e-6
	Epsilon    float64       // allocation noise threshold, default 0.01 units
	TimeBudget time.Duration // 0 = no budget
}

const (
	defaultTolerance = 1e-6
	defaultEpsilon   = 0.01
)

func (c SolverConfig) tolerance() float64 {
	if c.Tolerance > 0 {
		return c.Tolerance
	}
	return defaultTolerance
}

func (c SolverConfig) epsilon() float64 {
	if c.Epsilon > 0 {
		return c.Epsilon
	}
	return defaultEpsilon
}

// Solve runs the transportation LP with gonum's simplex. Inequality rows are
// slacked into standard form; x >= 0 is native, so no variable splitting is
// needed. The pivoting is deterministic, so identical problems return the
// same objective every run.
func Solve(ctx context.Context, p *Problem, cfg SolverConfig) Solution {
	if len(p.Vars) == 0 {
		return Solution{Status: StatusInfeasible, Detail: "no candidate variables"}
	}

	// Cheap certificate before burning simplex iterations: with every
	// warehouse reachable the problem is infeasible iff demand exceeds
	// total effective capacity.
	if len(p.Bub) > 0 {
		if td, tc := p.TotalDemand(), p.TotalCapacity(); td > tc {
			return Solution{
				Status: StatusInfeasible,
				Detail: fmt.Sprintf("total demand %.0f exceeds total effective capacity %.0f", td, tc),
			}
		}
	}

	n := len(p.Vars)
	me := len(p.Beq)
	mu := len(p.Bub)
	rows := me + mu
	cols := n + mu

	c := make([]float64, cols)
	copy(c, p.C)
	b := make([]float64, 0, rows)
	b = append(b, p.Beq...)
	b = append(b, p.Bub...)

	a := mat.NewDense(rows, cols, nil)
	for i, row := range p.Aeq {
		for j, v := range row {
			a.Set(i, j, v)
		}
	}
	for i, row := range p.Aub {
		for j, v := range row {
			a.Set(me+i, j, v)
		}
		a.Set(me+i, n+i, 1) // slack turns <= into =
	}

	type result struct {
		opt float64
		x   []float64
		err error
	}
	done := make(chan result, 1)
	go func() {
		opt, x, err := lp.Simplex(c, a, b, cfg.tolerance(), nil)
		done <- result{opt, x, err}
	}()

	var budget <-chan time.Time
	if cfg.TimeBudget > 0 {
		t := time.NewTimer(cfg.TimeBudget)
		defer t.Stop()
		budget = t.C
	}

	var res result
	select {
	case res = <-done:
	case <-budget:
		return Solution{Status: StatusNumericalFailure, Detail: "time budget exceeded"}
	case <-ctx.Done():
		return Solution{Status: StatusNumericalFailure, Detail: ctx.Err().Error()}
	}

	if res.err != nil {
		if errors.Is(res.err, lp.ErrInfeasible) {
			return Solution{Status: StatusInfeasible, Detail: infeasibleDetail(p)}
		}
		return Solution{Status: StatusNumericalFailure, Detail: res.err.Error()}
	}

	sol := Solution{Status: StatusOptimal, Feasible: true, Objective: res.opt}
	eps := cfg.epsilon()
	for i, v := range p.Vars {
		units := res.x[i]
		if units < eps {
			continue
		}
		sol.Allocations = append(sol.Allocations, Allocation{
			Product:      v.Product,
			Warehouse:    v.Warehouse,
			Channel:      v.Channel,
			State:        v.State,
			Units:        units,
			UnitCost:     v.UnitCost,
			Distance:     v.Distance,
			Cost:         units * v.UnitCost,
			ShipRequired: max(0, units-v.Available),
		})
	}
	return sol
}

func infeasibleDetail(p *Problem) string {
	if td, tc := p.TotalDemand(), p.TotalCapacity(); len(p.Bub) > 0 && td > tc {
		return fmt.Sprintf("total demand %.0f exceeds total effective capacity %.0f", td, tc)
	}
	return "constraints are contradictory"
}
