package inventory

import (
	"errors"
	"testing"

	"walloc/internal/model"
)

func fixture() ([]model.InventorySnapshot, []model.ScheduleEntry) {
	snapshots := []model.InventorySnapshot{
		{Warehouse: "Chicago", SKU: "A", Week: 1, Quantity: 4000},
	}
	schedule := []model.ScheduleEntry{
		{Warehouse: "Chicago", SKU: "A", Week: 2, Direction: model.DirectionOutgoing, Quantity: 500},
		{Warehouse: "Chicago", SKU: "A", Week: 3, Direction: model.DirectionIncoming, Quantity: 200},
		{Warehouse: "Chicago", SKU: "A", Week: 4, Direction: model.DirectionIncoming, Quantity: 300},
		{Warehouse: "Chicago", SKU: "A", Week: 4, Direction: model.DirectionOutgoing, Quantity: 100},
	}
	return snapshots, schedule
}

func TestAvailableRecurrence(t *testing.T) {
	snaps, sched := fixture()
	p := NewProjector(snaps, sched, PolicyWarn)

	cases := []struct {
		week int
		want float64
	}{
		{1, 4000},
		{2, 3500},
		{3, 3700},
		{4, 3900},
	}
	for _, c := range cases {
		got, warns, err := p.Available("Chicago", "A", c.week)
		if err != nil {
			t.Fatalf("week %d: %v", c.week, err)
		}
		if len(warns) != 0 {
			t.Fatalf("week %d: unexpected warnings %v", c.week, warns)
		}
		if got != c.want {
			t.Fatalf("week %d: got %v, want %v", c.week, got, c.want)
		}
	}
}

// Projecting straight to week 4 must agree with projecting to week 3 and
// applying week 4's deltas by hand.
func TestAvailableComposes(t *testing.T) {
	snaps, sched := fixture()
	p := NewProjector(snaps, sched, PolicyWarn)

	w3, _, err := p.Available("Chicago", "A", 3)
	if err != nil {
		t.Fatal(err)
	}
	w4, _, err := p.Available("Chicago", "A", 4)
	if err != nil {
		t.Fatal(err)
	}
	if want := w3 + 300 - 100; w4 != want {
		t.Fatalf("week4 = %v, want week3 + deltas = %v", w4, want)
	}
}

func TestNegativePolicies(t *testing.T) {
	snaps := []model.InventorySnapshot{{Warehouse: "W", SKU: "A", Week: 1, Quantity: 100}}
	sched := []model.ScheduleEntry{
		{Warehouse: "W", SKU: "A", Week: 2, Direction: model.DirectionOutgoing, Quantity: 300},
		{Warehouse: "W", SKU: "A", Week: 3, Direction: model.DirectionIncoming, Quantity: 500},
	}

	// Warn keeps the raw value and reports the fault.
	p := NewProjector(snaps, sched, PolicyWarn)
	got, warns, err := p.Available("W", "A", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 1 || warns[0].Week != 2 || warns[0].Quantity != -200 {
		t.Fatalf("warn: %+v", warns)
	}
	if got != 300 {
		t.Fatalf("warn: week3 = %v, want 300", got)
	}

	// Fail aborts at the first fault.
	p = NewProjector(snaps, sched, PolicyFail)
	_, _, err = p.Available("W", "A", 3)
	var niw *NegativeInventoryWarning
	if !errors.As(err, &niw) {
		t.Fatalf("fail: want NegativeInventoryWarning, got %v", err)
	}
	if niw.Week != 2 {
		t.Fatalf("fail: week = %d, want 2", niw.Week)
	}

	// Clamp floors the running value, changing downstream weeks.
	p = NewProjector(snaps, sched, PolicyClamp)
	got, warns, err = p.Available("W", "A", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 1 {
		t.Fatalf("clamp: warnings %v", warns)
	}
	if got != 500 {
		t.Fatalf("clamp: week3 = %v, want 500", got)
	}
}

func TestEffectiveCapacityFallsBackToDeclared(t *testing.T) {
	snaps, sched := fixture()
	p := NewProjector(snaps, sched, PolicyWarn)

	// Tracked pair overrides the declared capacity.
	eff, _, err := p.EffectiveCapacity("Chicago", []string{"A"}, 3, 9999)
	if err != nil {
		t.Fatal(err)
	}
	if eff != 3700 {
		t.Fatalf("tracked: got %v, want 3700", eff)
	}

	// Untracked warehouse keeps what it declared.
	eff, _, err = p.EffectiveCapacity("Phoenix", []string{"A"}, 3, 8000)
	if err != nil {
		t.Fatal(err)
	}
	if eff != 8000 {
		t.Fatalf("untracked: got %v, want 8000", eff)
	}
}

func TestEffectiveCapacityAggregatesSKUs(t *testing.T) {
	snaps := []model.InventorySnapshot{
		{Warehouse: "W", SKU: "A", Week: 1, Quantity: 100},
		{Warehouse: "W", SKU: "B", Week: 1, Quantity: 50},
	}
	p := NewProjector(snaps, nil, PolicyWarn)
	eff, _, err := p.EffectiveCapacity("W", []string{"A", "B", "C"}, 2, 9999)
	if err != nil {
		t.Fatal(err)
	}
	if eff != 150 {
		t.Fatalf("got %v, want 150", eff)
	}
}

func TestAvailableWeekValidation(t *testing.T) {
	p := NewProjector(nil, nil, PolicyWarn)
	if _, _, err := p.Available("W", "A", 0); err == nil {
		t.Fatal("expected error for week 0")
	}
}
