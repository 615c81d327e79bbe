package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeAssumptions holds the per-trade overridable parameters. One record per
// trade, mutable by users, read-only to the engine. All percentage fields are
// fractions (0.05 = 5%); nil means "not set at this level".
type TradeAssumptions struct {
	TradeID               string     `json:"tradeId" db:"trade_id"`
	SettlementDate        *time.Time `json:"settlementDate,omitempty" db:"settlement_date"`
	ServicingTransferDate *time.Time `json:"servicingTransferDate,omitempty" db:"servicing_transfer_date"`
	ServicerID            *string    `json:"servicerId,omitempty" db:"servicer_id"`

	BrokerFeePct *float64 `json:"brokerFeePct,omitempty" db:"broker_fee_pct"`
	OtherFeePct  *float64 `json:"otherFeePct,omitempty" db:"other_fee_pct"`

	// Flat per-asset acquisition costs
	LegalCost     *decimal.Decimal `json:"legalCost,omitempty" db:"legal_cost"`
	DiligenceCost *decimal.Decimal `json:"diligenceCost,omitempty" db:"diligence_cost"`
	TaxTitleCost  *decimal.Decimal `json:"taxTitleCost,omitempty" db:"tax_title_cost"`

	// Asset-manager liquidation fee, straight percentage of proceeds
	AMLiquidationFeePct *float64 `json:"amLiquidationFeePct,omitempty" db:"am_liquidation_fee_pct"`

	// Annual discount rate for NPV; nil switches NPV to the simplified net P&L proxy
	DiscountRate *float64 `json:"discountRate,omitempty" db:"discount_rate"`

	// Monthly carry rate overrides; when nil the engine falls back to the
	// square-footage model, then the property-type model
	TaxMonthlyRate       *decimal.Decimal `json:"taxMonthlyRate,omitempty" db:"tax_monthly_rate"`
	InsuranceMonthlyRate *decimal.Decimal `json:"insuranceMonthlyRate,omitempty" db:"insurance_monthly_rate"`

	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// LoanLevelOverride holds per-asset adjustments. Zero or one record per asset,
// created lazily on the first override write. Deltas are signed whole months.
type LoanLevelOverride struct {
	AssetID string `json:"assetId" db:"asset_id"`

	FCDurationDelta         *int `json:"fcDurationDelta,omitempty" db:"fc_duration_delta"`
	REOFCDurationDelta      *int `json:"reoFcDurationDelta,omitempty" db:"reo_fc_duration_delta"`
	RenovationDurationDelta *int `json:"renovationDurationDelta,omitempty" db:"renovation_duration_delta"`
	MarketingDurationDelta  *int `json:"marketingDurationDelta,omitempty" db:"marketing_duration_delta"`

	AcquisitionPrice *decimal.Decimal `json:"acquisitionPrice,omitempty" db:"acquisition_price"`

	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// StateReference holds per-US-state benchmark durations and fees. Static
// reference data loaded by migration seeds.
type StateReference struct {
	StateCode string `json:"stateCode" db:"state_code"`
	// ForeclosureDays is the summed duration of the state's foreclosure phases
	ForeclosureDays int `json:"foreclosureDays" db:"foreclosure_days"`
	// MarketingMonths and RehabMonths are REO phase baselines
	MarketingMonths int             `json:"marketingMonths" db:"marketing_months"`
	RehabMonths     int             `json:"rehabMonths" db:"rehab_months"`
	AvgLegalFee     decimal.Decimal `json:"avgLegalFee" db:"avg_legal_fee"`
}

// ServicerFeeSchedule holds per-servicer fee amounts keyed by phase.
type ServicerFeeSchedule struct {
	ServicerID string `json:"servicerId" db:"servicer_id"`
	Name       string `json:"name" db:"name"`

	// BoardFee is charged once at transfer; the rest accrue per month of
	// the named phase
	BoardFee        decimal.Decimal `json:"boardFee" db:"board_fee"`
	OneTwentyDayFee decimal.Decimal `json:"oneTwentyDayFee" db:"one_twenty_day_fee"`
	FCMonthlyFee    decimal.Decimal `json:"fcMonthlyFee" db:"fc_monthly_fee"`
	REOMonthlyFee   decimal.Decimal `json:"reoMonthlyFee" db:"reo_monthly_fee"`

	// Liquidation fee options; the engine charges the greater of the flat fee
	// and the percentage of proceeds
	LiquidationFlatFee decimal.Decimal `json:"liquidationFlatFee" db:"liquidation_flat_fee"`
	LiquidationFeePct  float64         `json:"liquidationFeePct" db:"liquidation_fee_pct"`

	// DefaultTransferMonths is the boarding window when the trade has no dates
	DefaultTransferMonths *int `json:"defaultTransferMonths,omitempty" db:"default_transfer_months"`
}
