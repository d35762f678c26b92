package plan

import (
	"testing"

	"walloc/internal/model"
)

func TestSavingsReport(t *testing.T) {
	customer := model.PlanResult{Kind: KindCustomer, Weeks: []model.WeekResult{
		{Week: 3, Objective: 1000},
		{Week: 4, Objective: 2000},
	}}
	optimized := model.PlanResult{Kind: KindOptimized, Weeks: []model.WeekResult{
		{Week: 3, Objective: 600},
		{Week: 4, Objective: 1500},
	}}

	r := Savings(customer, optimized)
	if r.CustomerCost != "3000.00" || r.OptimizedCost != "2100.00" {
		t.Fatalf("totals: %s vs %s", r.CustomerCost, r.OptimizedCost)
	}
	if r.Savings != "900.00" {
		t.Fatalf("savings = %s", r.Savings)
	}
	if r.SavingsPct != "30.00" {
		t.Fatalf("pct = %s", r.SavingsPct)
	}
	if len(r.Weeks) != 2 {
		t.Fatalf("weeks: %+v", r.Weeks)
	}
	if r.Weeks[0].Savings != "400.00" || r.Weeks[0].SavingsPct != "40.00" {
		t.Fatalf("week3: %+v", r.Weeks[0])
	}
}

func TestSavingsReportZeroCustomerCost(t *testing.T) {
	r := Savings(model.PlanResult{Weeks: []model.WeekResult{{Week: 3}}}, model.PlanResult{})
	if r.SavingsPct != "0.00" {
		t.Fatalf("pct = %s, want 0.00 when customer cost is zero", r.SavingsPct)
	}
}

func TestSavingsRoundsToCents(t *testing.T) {
	customer := model.PlanResult{Weeks: []model.WeekResult{{Week: 3, Objective: 10.005}}}
	optimized := model.PlanResult{Weeks: []model.WeekResult{{Week: 3, Objective: 3.334}}}
	r := Savings(customer, optimized)
	if r.CustomerCost != "10.01" || r.OptimizedCost != "3.33" {
		t.Fatalf("rounding: %s / %s", r.CustomerCost, r.OptimizedCost)
	}
}
