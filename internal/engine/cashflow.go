package engine

import "github.com/shopspring/decimal"

// BuildCashFlow assembles the simplified monthly cash-flow series.
//
// Period 0 carries the full acquisition outlay (price plus acquisition
// costs). Each of the duration's months carries an equal share of the
// remaining costs as an outflow, and the final month additionally receives
// the sale proceeds. A non-positive duration yields an empty series; callers
// must treat dependent metrics as undefined rather than divide.
func BuildCashFlow(acqPrice, acqCosts, remainingCosts, proceeds decimal.Decimal, durationMonths int) []decimal.Decimal {
	if durationMonths <= 0 {
		return nil
	}

	flows := make([]decimal.Decimal, durationMonths+1)
	flows[0] = acqPrice.Add(acqCosts).Neg()

	monthly := remainingCosts.Div(decimal.NewFromInt(int64(durationMonths)))
	for t := 1; t <= durationMonths; t++ {
		flows[t] = monthly.Neg()
	}
	flows[durationMonths] = flows[durationMonths].Add(proceeds)

	return flows
}
