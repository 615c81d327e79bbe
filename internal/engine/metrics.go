package engine

import (
	"math"

	"github.com/asset-disposition/internal/models"
	"github.com/shopspring/decimal"
)

// MetricsInput bundles everything ReturnMetrics derivation needs
type MetricsInput struct {
	AcquisitionPrice decimal.Decimal
	TotalCosts       decimal.Decimal
	Proceeds         decimal.Decimal
	DurationMonths   int
	CashFlow         []decimal.Decimal
	// DiscountRate is the annual rate from the trade; nil switches NPV to the
	// simplified net P&L proxy
	DiscountRate *float64
	UPB          decimal.Decimal
	TotalDebt    decimal.Decimal
	SellerAsIs   *decimal.Decimal
}

// ComputeMetrics derives the investment-return bundle from the cash-flow
// series and totals. Every ratio guards its denominator: zero or missing
// denominators yield zero, never a fault or division error.
func (e *Engine) ComputeMetrics(in *MetricsInput) (models.ReturnMetrics, []models.FieldFault) {
	var faults []models.FieldFault
	m := models.ReturnMetrics{}

	gross := in.AcquisitionPrice.Add(in.TotalCosts)
	m.NetPL = in.Proceeds.Sub(in.AcquisitionPrice).Sub(in.TotalCosts)

	if gross.IsPositive() {
		m.MOIC = in.Proceeds.InexactFloat64() / gross.InexactFloat64()
	}

	m.AnnualizedROI = annualizedROI(m.NetPL.InexactFloat64(), gross.InexactFloat64(), in.DurationMonths)

	irr, err := e.solveIRR(in.CashFlow)
	if err != nil {
		faults = append(faults, models.FieldFault{
			Field:  "irr",
			Code:   "CALCULATION_ERROR",
			Reason: err.Error(),
		})
	} else {
		m.IRR = irr
	}

	if in.DiscountRate != nil {
		m.NPV = npv(in.CashFlow, *in.DiscountRate/12)
	} else {
		// Documented approximation: with no discount rate configured, NPV is
		// reported as the undiscounted net P&L
		m.NPV = m.NetPL
		m.NPVSimplified = true
	}

	m.BidPctUPB = bidPct(in.AcquisitionPrice, in.UPB)
	m.BidPctTotalDebt = bidPct(in.AcquisitionPrice, in.TotalDebt)
	if in.SellerAsIs != nil {
		m.BidPctAsIs = bidPct(in.AcquisitionPrice, *in.SellerAsIs)
	}

	return m, faults
}

// annualizedROI compounds the holding-period return to a yearly figure:
// ((net/gross)+1)^(12/months)-1. At a 12-month duration this reduces to the
// simple period return.
func annualizedROI(netPL, gross float64, months int) float64 {
	if gross <= 0 || months <= 0 {
		return 0
	}
	base := netPL/gross + 1
	if base <= 0 {
		return -1
	}
	return math.Pow(base, 12/float64(months)) - 1
}

// bidPct expresses the acquisition price as a percentage of a reference
// amount, zero when the reference is zero or negative
func bidPct(price, denominator decimal.Decimal) float64 {
	if !denominator.IsPositive() {
		return 0
	}
	return price.InexactFloat64() / denominator.InexactFloat64() * 100
}

// npv discounts the cash-flow series at a periodic rate
func npv(cashflow []decimal.Decimal, periodicRate float64) decimal.Decimal {
	total := 0.0
	for t, cf := range cashflow {
		total += cf.InexactFloat64() / math.Pow(1+periodicRate, float64(t))
	}
	return decimal.NewFromFloat(total).Round(2)
}
