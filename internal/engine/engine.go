// Package engine implements the disposition model calculation core. Every
// function here is a pure, synchronous computation over its inputs; all I/O
// and lookup caching lives in the service and storage layers.
package engine

import (
	"github.com/asset-disposition/internal/config"
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
	"github.com/shopspring/decimal"
)

// Engine computes disposition model bundles. Its numeric conventions come
// entirely from the EngineConfig it was constructed with, so two engines with
// the same config produce identical results for identical inputs.
type Engine struct {
	cfg config.EngineConfig
}

// New creates an engine with the given configuration
func New(cfg config.EngineConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Inputs bundles everything the engine needs for one asset. Any field except
// Asset may be nil; missing records degrade the affected components to their
// documented defaults rather than failing the run.
type Inputs struct {
	Asset      *models.Asset
	Trade      *models.TradeAssumptions
	Override   *models.LoanLevelOverride
	StateRef   *models.StateReference
	Servicer   *models.ServicerFeeSchedule
	Valuations []*models.Valuation
}

// Run executes the full per-asset pipeline for one strategy and scenario:
// resolve acquisition price, build the timeline, resolve proceeds, compute
// expenses, assemble the cash flow, and derive return metrics. Faults from
// every stage are collected on the result's diagnostics; Run itself never
// fails for missing data.
func (e *Engine) Run(in *Inputs, strategy types.Strategy, scenario types.Scenario) *models.ModelResult {
	result := &models.ModelResult{
		AssetID:  in.Asset.ID,
		Strategy: strategy,
		Scenario: scenario,
	}

	r := e.newResolver(in)

	price, _, err := r.AcquisitionPrice()
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, faultFromError("acquisition_price", err))
	}
	result.AcquisitionPrice = price

	timeline, faults := e.BuildTimeline(in, strategy)
	result.Timeline = timeline
	result.Diagnostics = append(result.Diagnostics, faults...)

	proceeds, source, faults := e.ResolveProceeds(in, scenario)
	result.ExpectedProceeds = proceeds
	result.ProceedsSource = source
	result.Diagnostics = append(result.Diagnostics, faults...)

	expenses, faults := e.ComputeExpenses(in, timeline, strategy, scenario, proceeds)
	result.Expenses = expenses
	result.Diagnostics = append(result.Diagnostics, faults...)

	remaining := expenses.Total.Sub(expenses.AcquisitionTotal)
	cashflow := BuildCashFlow(price, expenses.AcquisitionTotal, remaining, proceeds, timeline.TotalMonths)

	var discountRate *float64
	if in.Trade != nil {
		discountRate = in.Trade.DiscountRate
	}

	metrics, faults := e.ComputeMetrics(&MetricsInput{
		AcquisitionPrice: price,
		TotalCosts:       expenses.Total,
		Proceeds:         proceeds,
		DurationMonths:   timeline.TotalMonths,
		CashFlow:         cashflow,
		DiscountRate:     discountRate,
		UPB:              in.Asset.UPB,
		TotalDebt:        in.Asset.TotalDebt,
		SellerAsIs:       in.Asset.TapeAsIsValue,
	})
	result.Metrics = metrics
	result.Diagnostics = append(result.Diagnostics, faults...)

	return result
}

func faultFromError(field string, err error) models.FieldFault {
	return models.FieldFault{
		Field:  field,
		Code:   "MISSING_DATA",
		Reason: err.Error(),
	}
}

// mulPct multiplies a money amount by a fractional percentage, rounded to cents
func mulPct(amount decimal.Decimal, pct float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(pct)).Round(2)
}

// mulMonths multiplies a monthly rate by a whole-month duration
func mulMonths(monthly decimal.Decimal, months int) decimal.Decimal {
	return monthly.Mul(decimal.NewFromInt(int64(months))).Round(2)
}
