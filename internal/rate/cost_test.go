package rate

import (
	"errors"
	"math"
	"testing"

	"walloc/internal/model"
)

var (
	testSKU = model.SKU{Code: "32Q21K", LengthIn: 12, WidthIn: 8, HeightIn: 6, WeightLb: 5}
	trailer = model.Vehicle{Name: "53' Trailer", LengthIn: 636, WidthIn: 96, HeightIn: 108, MaxWeightLb: 45000}
	ups     = model.Carrier{Name: "UPS", Mode: "LTL", Tiers: []model.RateTier{
		{MinDistance: 0, MaxDistance: 500, Rate: 2.5, MinimumCharge: 25, FixedFee: 15},
		{MinDistance: 500, MaxDistance: 1000, Rate: 2.2, MinimumCharge: 35, FixedFee: 15},
		{MinDistance: 1000, MaxDistance: 99999, Rate: 1.8, MinimumCharge: 50, FixedFee: 15},
	}}
)

func TestChargeableWeightUsesDimWhenLarger(t *testing.T) {
	// 12*8*6/139 = 4.14 lb dimensional, actual 5 lb wins
	if got := ChargeableWeight(testSKU); got != 5 {
		t.Fatalf("got %v, want actual weight 5", got)
	}
	bulky := model.SKU{LengthIn: 48, WidthIn: 40, HeightIn: 36, WeightLb: 45}
	want := 48.0 * 40 * 36 / 139
	if got := ChargeableWeight(bulky); math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want dim weight %v", got, want)
	}
}

func TestMaxUnits(t *testing.T) {
	// volume bound: 636*96*108*0.85 / (12*8*6) = 9729; weight bound:
	// 45000*0.85/5 = 7650. Weight binds.
	n, err := MaxUnits(testSKU, trailer)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7650 {
		t.Fatalf("got %d, want 7650", n)
	}
}

func TestMaxUnitsCapacityError(t *testing.T) {
	tiny := model.Vehicle{Name: "van", LengthIn: 10, WidthIn: 10, HeightIn: 10, MaxWeightLb: 100}
	big := model.SKU{Code: "C", LengthIn: 48, WidthIn: 40, HeightIn: 36, WeightLb: 45}
	_, err := MaxUnits(big, tiny)
	var ce *CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("want CapacityError, got %v", err)
	}
}

func TestUnitCostTierSelection(t *testing.T) {
	// 750 miles lands in the middle tier: 5 lb * 2.2 * 750/100 + 15 = 97.5
	cost, units, err := UnitCost(testSKU, ups, trailer, 750)
	if err != nil {
		t.Fatal(err)
	}
	if units != 7650 {
		t.Fatalf("units = %d, want 7650", units)
	}
	want := 97.5 / 7650
	if math.Abs(cost-want) > 1e-12 {
		t.Fatalf("cost = %v, want %v", cost, want)
	}
}

func TestUnitCostMinimumChargeFloor(t *testing.T) {
	// 10 miles: variable 5*2.5*0.1+15 = 16.25 < minimum 25
	cost, _, err := UnitCost(testSKU, ups, trailer, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := 25.0 / 7650
	if math.Abs(cost-want) > 1e-12 {
		t.Fatalf("cost = %v, want minimum charge %v", cost, want)
	}
}

func TestNoApplicableRate(t *testing.T) {
	fedex := model.Carrier{Name: "FedEx", Mode: "LTL", Tiers: []model.RateTier{
		{MinDistance: 0, MaxDistance: 500, Rate: 2.8, MinimumCharge: 30, FixedFee: 20},
	}}
	_, _, err := UnitCost(testSKU, fedex, trailer, 1500)
	var nr *NoApplicableRateError
	if !errors.As(err, &nr) {
		t.Fatalf("want NoApplicableRateError, got %v", err)
	}
}

func TestUnitCostBestVehiclePicksLargest(t *testing.T) {
	small := model.Vehicle{Name: "40' Trailer", LengthIn: 480, WidthIn: 96, HeightIn: 108, MaxWeightLb: 40000}
	cost, name, err := UnitCostBestVehicle(testSKU, ups, []model.Vehicle{small, trailer}, 750)
	if err != nil {
		t.Fatal(err)
	}
	if name != trailer.Name {
		t.Fatalf("picked %s, want %s", name, trailer.Name)
	}
	direct, _, _ := UnitCost(testSKU, ups, trailer, 750)
	if cost != direct {
		t.Fatalf("cost mismatch: %v vs %v", cost, direct)
	}
}

func TestFlatRate(t *testing.T) {
	f := Flat{PerUnitPer100Mi: 0.12}
	if got := f.UnitCost(250); math.Abs(got-0.3) > 1e-12 {
		t.Fatalf("got %v, want 0.3", got)
	}
	if got := f.UnitCost(0); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
