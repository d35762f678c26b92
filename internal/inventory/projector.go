package inventory

import (
	"fmt"

	"walloc/internal/model"
)

// Policy decides what happens when a projected quantity goes negative.
// Negative values mean the outgoing schedule overdraws the warehouse, which
// is a data fault rather than a planning outcome.
type Policy int

const (
	// PolicyWarn reports the fault and keeps the raw (negative) value.
	PolicyWarn Policy = iota
	// PolicyFail aborts the projection with an error.
	PolicyFail
	// PolicyClamp reports the fault and floors the running value at zero.
	PolicyClamp
)

// NegativeInventoryWarning flags an overdrawn (warehouse, SKU) at Week.
type NegativeInventoryWarning struct {
	Warehouse string
	SKU       string
	Week      int
	Quantity  float64
}

func (w *NegativeInventoryWarning) Error() string {
	return fmt.Sprintf("projected inventory negative: warehouse=%s sku=%s week=%d qty=%.2f",
		w.Warehouse, w.SKU, w.Week, w.Quantity)
}

type key struct {
	warehouse string
	sku       string
}

// Projector rolls opening snapshots forward through the schedule:
//
//	available[1] = opening[1]
//	available[w] = available[w-1] + incoming[w] - outgoing[w]
//
// The recurrence is always evaluated from week 1 so mid-horizon faults are
// not skipped over.
type Projector struct {
	opening  map[key]float64
	incoming map[key]map[int]float64
	outgoing map[key]map[int]float64
	policy   Policy
}

func NewProjector(snapshots []model.InventorySnapshot, schedule []model.ScheduleEntry, policy Policy) *Projector {
	p := &Projector{
		opening:  map[key]float64{},
		incoming: map[key]map[int]float64{},
		outgoing: map[key]map[int]float64{},
		policy:   policy,
	}
	for _, s := range snapshots {
		k := key{s.Warehouse, s.SKU}
		// Week-1 snapshot is the recurrence seed; later snapshots are
		// ignored in favor of the rolled-forward value.
		if s.Week <= 1 {
			p.opening[k] = s.Quantity
		}
	}
	for _, e := range schedule {
		k := key{e.Warehouse, e.SKU}
		var dst map[key]map[int]float64
		switch e.Direction {
		case model.DirectionIncoming:
			dst = p.incoming
		case model.DirectionOutgoing:
			dst = p.outgoing
		default:
			continue
		}
		if dst[k] == nil {
			dst[k] = map[int]float64{}
		}
		dst[k][e.Week] += e.Quantity
	}
	return p
}

// Tracked reports whether any snapshot or schedule data exists for the pair.
// Untracked warehouses keep their declared capacity.
func (p *Projector) Tracked(warehouse, sku string) bool {
	k := key{warehouse, sku}
	if _, ok := p.opening[k]; ok {
		return true
	}
	if _, ok := p.incoming[k]; ok {
		return true
	}
	_, ok := p.outgoing[k]
	return ok
}

// Available returns the projected quantity for (warehouse, sku) at week.
// Warnings cover every week at which the running value went negative; under
// PolicyFail the first fault is returned as the error instead.
func (p *Projector) Available(warehouse, sku string, week int) (float64, []*NegativeInventoryWarning, error) {
	if week < 1 {
		return 0, nil, fmt.Errorf("week must be >= 1, got %d", week)
	}
	k := key{warehouse, sku}
	avail := p.opening[k]
	var warns []*NegativeInventoryWarning
	check := func(w int) error {
		if avail < 0 {
			warn := &NegativeInventoryWarning{Warehouse: warehouse, SKU: sku, Week: w, Quantity: avail}
			if p.policy == PolicyFail {
				return warn
			}
			warns = append(warns, warn)
			if p.policy == PolicyClamp {
				avail = 0
			}
		}
		return nil
	}
	if err := check(1); err != nil {
		return avail, warns, err
	}
	for w := 2; w <= week; w++ {
		avail += p.incoming[k][w] - p.outgoing[k][w]
		if err := check(w); err != nil {
			return avail, warns, err
		}
	}
	return avail, warns, nil
}

// EffectiveCapacity aggregates projected availability across the SKUs mapped
// to a product and returns the warehouse's capacity bound for the planning
// week. When none of the SKUs are tracked the declared capacity stands.
func (p *Projector) EffectiveCapacity(warehouse string, skus []string, week int, declared float64) (float64, []*NegativeInventoryWarning, error) {
	total := 0.0
	tracked := false
	var warns []*NegativeInventoryWarning
	for _, sku := range skus {
		if !p.Tracked(warehouse, sku) {
			continue
		}
		tracked = true
		avail, w, err := p.Available(warehouse, sku, week)
		warns = append(warns, w...)
		if err != nil {
			return 0, warns, err
		}
		total += avail
	}
	if !tracked {
		return declared, warns, nil
	}
	return total, warns, nil
}
