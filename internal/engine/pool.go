package engine

import (
	"math"

	"github.com/asset-disposition/internal/models"
	"github.com/shopspring/decimal"
)

// AggregatePool rolls per-asset results into acquisition-weighted pool
// metrics. Assets without a positive acquisition price are excluded from the
// roll-up but counted. The pool IRR is the documented approximation
// moic^(1/years)-1 over the weighted-average duration, not a true pooled
// cash-flow IRR.
func (e *Engine) AggregatePool(results []*models.ModelResult, assets []*models.Asset) *models.PoolSummary {
	assetByID := make(map[string]*models.Asset, len(assets))
	for _, a := range assets {
		assetByID[a.ID] = a
	}

	s := &models.PoolSummary{AssetCount: len(results)}

	weightedMonths := decimal.Zero
	for _, r := range results {
		if !r.AcquisitionPrice.IsPositive() {
			s.ExcludedCount++
			continue
		}
		s.IncludedCount++

		s.TotalAcquisitionPrice = s.TotalAcquisitionPrice.Add(r.AcquisitionPrice)
		s.TotalCosts = s.TotalCosts.Add(r.Expenses.Total)
		s.TotalProceeds = s.TotalProceeds.Add(r.ExpectedProceeds)

		months := decimal.NewFromInt(int64(r.Timeline.TotalMonths))
		weightedMonths = weightedMonths.Add(r.AcquisitionPrice.Mul(months))

		if a, ok := assetByID[r.AssetID]; ok {
			s.TotalUPB = s.TotalUPB.Add(a.UPB)
			s.TotalDebt = s.TotalDebt.Add(a.TotalDebt)
			if a.TapeAsIsValue != nil {
				s.TotalAsIs = s.TotalAsIs.Add(*a.TapeAsIsValue)
			}
		}
	}

	s.NetPL = s.TotalProceeds.Sub(s.TotalAcquisitionPrice).Sub(s.TotalCosts)
	// No single discount rate applies across trades, so pool NPV carries the
	// net-P&L proxy and is flagged as such
	s.NPV = s.NetPL
	s.NPVSimplified = true

	if s.TotalAcquisitionPrice.IsPositive() {
		s.WeightedDurationMonths = weightedMonths.InexactFloat64() / s.TotalAcquisitionPrice.InexactFloat64()
	}

	gross := s.TotalAcquisitionPrice.Add(s.TotalCosts)
	if gross.IsPositive() {
		s.MOIC = s.TotalProceeds.InexactFloat64() / gross.InexactFloat64()
	}

	s.IRR = poolIRR(s.MOIC, s.WeightedDurationMonths)

	if s.WeightedDurationMonths > 0 {
		s.AnnualizedROI = annualizedROIFloat(s.NetPL.InexactFloat64(), gross.InexactFloat64(), s.WeightedDurationMonths)
	}

	s.BidPctUPB = bidPct(s.TotalAcquisitionPrice, s.TotalUPB)
	s.BidPctTotalDebt = bidPct(s.TotalAcquisitionPrice, s.TotalDebt)
	s.BidPctAsIs = bidPct(s.TotalAcquisitionPrice, s.TotalAsIs)

	return s
}

// poolIRR approximates the pool's annual IRR as moic^(1/years)-1 over the
// weighted-average duration; zero on non-positive MOIC or duration
func poolIRR(moic, durationMonths float64) float64 {
	if moic <= 0 || durationMonths <= 0 {
		return 0
	}
	years := durationMonths / 12
	return math.Pow(moic, 1/years) - 1
}

// annualizedROIFloat is the fractional-month variant used at pool granularity
func annualizedROIFloat(netPL, gross, months float64) float64 {
	if gross <= 0 || months <= 0 {
		return 0
	}
	base := netPL/gross + 1
	if base <= 0 {
		return -1
	}
	return math.Pow(base, 12/months) - 1
}
