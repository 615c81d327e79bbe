package engine

import (
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
	"github.com/shopspring/decimal"
)

// ComputeExpenses builds the full expense breakdown for one strategy and
// scenario from the resolved timeline. Every component that cannot be
// resolved contributes zero and records a fault; the bucket totals and the
// grand total are always well defined.
func (e *Engine) ComputeExpenses(in *Inputs, tl models.Timeline, strategy types.Strategy, scenario types.Scenario, proceeds decimal.Decimal) (models.ExpenseBreakdown, []models.FieldFault) {
	var faults []models.FieldFault
	r := e.newResolver(in)
	b := models.ExpenseBreakdown{}

	// Acquisition costs: one-time, scenario-independent.
	price, _, err := r.AcquisitionPrice()
	if err != nil {
		faults = append(faults, faultFromError("acq_broker_fees", err))
	} else {
		brokerPct, _ := r.BrokerFeePct()
		otherPct, _ := r.OtherFeePct()
		b.BrokerFee = mulPct(price, brokerPct)
		b.OtherFee = mulPct(price, otherPct)
	}
	if in.Trade != nil {
		if in.Trade.LegalCost != nil {
			b.LegalCost = *in.Trade.LegalCost
		}
		if in.Trade.DiligenceCost != nil {
			b.DiligenceCost = *in.Trade.DiligenceCost
		}
		if in.Trade.TaxTitleCost != nil {
			b.TaxTitleCost = *in.Trade.TaxTitleCost
		}
	}
	b.AcquisitionTotal = b.BrokerFee.Add(b.OtherFee).Add(b.LegalCost).
		Add(b.DiligenceCost).Add(b.TaxTitleCost)

	// Carry costs: accrue over the timeline.
	b.ServicingFees = e.servicingFees(in, tl)

	taxMonthly, _ := r.TaxMonthlyRate()
	insMonthly, _ := r.InsuranceMonthlyRate()
	b.TaxesAndInsurance = mulMonths(taxMonthly.Add(insMonthly), tl.TotalMonths)

	if fee, _, err := r.StateLegalFee(); err != nil {
		faults = append(faults, faultFromError("state_legal_fee", err))
	} else {
		b.StateLegalFee = fee
	}
	b.CarryTotal = b.ServicingFees.Add(b.TaxesAndInsurance).Add(b.StateLegalFee)

	// Liquidation costs: charged at sale.
	b.ServicerLiquidationFee = e.servicerLiquidationFee(in, proceeds)

	if pct, _, err := r.AMLiquidationFeePct(); err != nil {
		faults = append(faults, faultFromError("am_liquidation_fee", err))
	} else {
		b.AMLiquidationFee = mulPct(proceeds, pct)
	}

	if strategy == types.StrategyREO {
		if cost, _, err := r.TrashoutCost(); err != nil {
			faults = append(faults, faultFromError("trashout_cost", err))
		} else {
			b.TrashoutCost = cost
		}

		// Renovation spend applies only when modeling the rehab path
		if scenario == types.ScenarioARV {
			if cost, _, err := r.RenovationBudget(); err != nil {
				faults = append(faults, faultFromError("renovation_cost", err))
			} else {
				b.RenovationCost = cost
			}
		}

		reoMonths := tl.RenovationMonths + tl.MarketingMonths
		holding := decimal.NewFromFloat(e.cfg.REOHoldingMonthlyRate)
		b.REOHoldingCosts = mulMonths(holding, reoMonths)
	}
	b.LiquidationTotal = b.ServicerLiquidationFee.Add(b.AMLiquidationFee).
		Add(b.TrashoutCost).Add(b.RenovationCost).Add(b.REOHoldingCosts)

	b.Total = b.AcquisitionTotal.Add(b.CarryTotal).Add(b.LiquidationTotal)

	return b, faults
}

// servicingFees charges the servicer fee schedule against the timeline:
// board fee once, 120-day fee per transfer month, FC fee per foreclosure
// month, REO fee per REO month.
func (e *Engine) servicingFees(in *Inputs, tl models.Timeline) decimal.Decimal {
	if in.Servicer == nil {
		return decimal.Zero
	}
	s := in.Servicer
	reoMonths := tl.RenovationMonths + tl.MarketingMonths

	total := s.BoardFee
	total = total.Add(mulMonths(s.OneTwentyDayFee, tl.ServicingTransferMonths))
	total = total.Add(mulMonths(s.FCMonthlyFee, tl.ForeclosureMonths))
	total = total.Add(mulMonths(s.REOMonthlyFee, reoMonths))
	return total
}

// servicerLiquidationFee charges the greater of the servicer's flat fee and
// its percentage of proceeds
func (e *Engine) servicerLiquidationFee(in *Inputs, proceeds decimal.Decimal) decimal.Decimal {
	if in.Servicer == nil {
		return decimal.Zero
	}
	pctFee := mulPct(proceeds, in.Servicer.LiquidationFeePct)
	if in.Servicer.LiquidationFlatFee.GreaterThan(pctFee) {
		return in.Servicer.LiquidationFlatFee
	}
	return pctFee
}
