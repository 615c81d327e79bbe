package models

import (
	"github.com/asset-disposition/internal/types"
	"github.com/shopspring/decimal"
)

// Timeline holds the resolved phase durations in whole months. Phases that do
// not apply to the chosen strategy are zero.
type Timeline struct {
	ServicingTransferMonths int `json:"servicingTransferMonths"`
	ForeclosureMonths       int `json:"foreclosureMonths"`
	RenovationMonths        int `json:"renovationMonths"`
	MarketingMonths         int `json:"marketingMonths"`
	TotalMonths             int `json:"totalTimelineMonths"`
}

// ExpenseBreakdown holds the full expense model in three buckets. Components
// that could not be resolved contribute zero; the totals are always defined.
type ExpenseBreakdown struct {
	// Acquisition costs (one-time, scenario-independent)
	BrokerFee        decimal.Decimal `json:"acqBrokerFees"`
	OtherFee         decimal.Decimal `json:"acqOtherFees"`
	LegalCost        decimal.Decimal `json:"acqLegalCost"`
	DiligenceCost    decimal.Decimal `json:"acqDiligenceCost"`
	TaxTitleCost     decimal.Decimal `json:"acqTaxTitleCost"`
	AcquisitionTotal decimal.Decimal `json:"acquisitionTotal"`

	// Carry costs (accrue over the total timeline)
	ServicingFees     decimal.Decimal `json:"servicingFees"`
	TaxesAndInsurance decimal.Decimal `json:"taxesAndInsurance"`
	StateLegalFee     decimal.Decimal `json:"stateLegalFee"`
	CarryTotal        decimal.Decimal `json:"carryTotal"`

	// Liquidation costs (at sale)
	ServicerLiquidationFee decimal.Decimal `json:"servicerLiquidationFee"`
	AMLiquidationFee       decimal.Decimal `json:"amLiquidationFee"`
	TrashoutCost           decimal.Decimal `json:"trashoutCost"`
	RenovationCost         decimal.Decimal `json:"renovationCost"`
	REOHoldingCosts        decimal.Decimal `json:"reoHoldingCosts"`
	LiquidationTotal       decimal.Decimal `json:"liquidationTotal"`

	Total decimal.Decimal `json:"totalCosts"`
}

// ReturnMetrics holds the investment-return figures for one modeled bundle.
// Ratios are plain floats; any ratio with a non-positive denominator is zero.
type ReturnMetrics struct {
	NetPL decimal.Decimal `json:"netPl"`
	MOIC  float64         `json:"moic"`
	IRR   float64         `json:"irr"`
	NPV   decimal.Decimal `json:"npv"`
	// NPVSimplified marks the documented approximation that substitutes net
	// P&L for NPV when no discount rate is configured on the trade
	NPVSimplified   bool    `json:"npvSimplified"`
	AnnualizedROI   float64 `json:"annualizedRoi"`
	BidPctUPB       float64 `json:"bidPctUpb"`
	BidPctTotalDebt float64 `json:"bidPctTd"`
	BidPctAsIs      float64 `json:"bidPctAsis"`
}

// FieldFault records why a single field degraded to its default during a
// model run. Faults are diagnostics, never failures.
type FieldFault struct {
	Field  string `json:"field"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// ModelResult is the computed bundle for one asset, one strategy, one
// scenario. Created fresh on every request and never persisted.
type ModelResult struct {
	AssetID  string         `json:"assetId"`
	Strategy types.Strategy `json:"strategy"`
	Scenario types.Scenario `json:"scenario"`

	AcquisitionPrice decimal.Decimal  `json:"acquisitionPrice"`
	Timeline         Timeline         `json:"timeline"`
	Expenses         ExpenseBreakdown `json:"expenses"`

	ExpectedProceeds decimal.Decimal       `json:"expectedRecovery"`
	ProceedsSource   types.ValuationSource `json:"proceedsSource,omitempty"`

	Metrics ReturnMetrics `json:"metrics"`

	Diagnostics []FieldFault `json:"diagnostics,omitempty"`
}

// PoolSummary rolls per-asset results into acquisition-weighted pool metrics.
type PoolSummary struct {
	AssetCount    int `json:"assetCount"`
	IncludedCount int `json:"includedCount"`
	ExcludedCount int `json:"excludedCount"`

	TotalAcquisitionPrice decimal.Decimal `json:"totalAcquisitionPrice"`
	TotalCosts            decimal.Decimal `json:"totalCosts"`
	TotalProceeds         decimal.Decimal `json:"totalProceeds"`
	TotalUPB              decimal.Decimal `json:"totalUpb"`
	TotalDebt             decimal.Decimal `json:"totalDebt"`
	TotalAsIs             decimal.Decimal `json:"totalAsis"`

	NetPL decimal.Decimal `json:"netPl"`
	NPV   decimal.Decimal `json:"npv"`
	// NPVSimplified is always set at pool granularity; there is no single
	// pool discount rate, so NPV carries the net-P&L proxy
	NPVSimplified          bool    `json:"npvSimplified"`
	WeightedDurationMonths float64 `json:"weightedDurationMonths"`
	MOIC                   float64         `json:"moic"`
	IRR                    float64         `json:"irr"`
	AnnualizedROI          float64         `json:"annualizedRoi"`
	BidPctUPB              float64         `json:"bidPctUpb"`
	BidPctTotalDebt        float64         `json:"bidPctTd"`
	BidPctAsIs             float64         `json:"bidPctAsis"`
}
