package plan

import (
    "github.com/shopspring/decimal"

    "walloc/internal/model"
)

var hundred = decimal.NewFromInt(100)

func money(f float64) decimal.Decimal {
    return decimal.NewFromFloat(f).Round(2)
}

// Savings reduces the customer and optimized plans to the report the
// comparison page shows. Money is carried as decimals and rendered with two
// places; percentages are of the customer cost.
func Savings(customer, optimized model.PlanResult) model.SavingsReport {
    optByWeek := map[int]model.WeekResult{}
    for _, w := range optimized.Weeks {
        optByWeek[w.Week] = w
    }

    report := model.SavingsReport{}
    totalCust := decimal.Zero
    totalOpt := decimal.Zero
    for _, cw := range customer.Weeks {
        ow := optByWeek[cw.Week]
        cust := money(cw.Objective)
        opt := money(ow.Objective)
        totalCust = totalCust.Add(cust)
        totalOpt = totalOpt.Add(opt)
        report.Weeks = append(report.Weeks, model.WeekSavings{
            Week:          cw.Week,
            CustomerCost:  cust.StringFixed(2),
            OptimizedCost: opt.StringFixed(2),
            Savings:       cust.Sub(opt).StringFixed(2),
            SavingsPct:    pct(cust.Sub(opt), cust),
        })
    }
    report.CustomerCost = totalCust.StringFixed(2)
    report.OptimizedCost = totalOpt.StringFixed(2)
    report.Savings = totalCust.Sub(totalOpt).StringFixed(2)
    report.SavingsPct = pct(totalCust.Sub(totalOpt), totalCust)
    return report
}

func pct(part, whole decimal.Decimal) string {
    if whole.IsZero() {
        return "0.00"
    }
    return part.Div(whole).Mul(hundred).Round(2).StringFixed(2)
}
