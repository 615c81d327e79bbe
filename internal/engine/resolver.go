package engine

import (
	"github.com/asset-disposition/internal/errors"
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
	"github.com/shopspring/decimal"
)

// candidate is one link in a precedence chain: a level tag plus a lookup that
// reports whether the level can supply a value.
type candidate[T any] struct {
	level types.AssumptionLevel
	get   func() (T, bool)
}

// resolveChain tries candidates in order and returns the first hit with its
// provenance level. When no level matches it returns the zero value,
// LevelMissing, and a MissingDataError; callers substitute zero and continue.
func resolveChain[T any](parameter string, chain ...candidate[T]) (T, types.AssumptionLevel, error) {
	for _, c := range chain {
		if v, ok := c.get(); ok {
			return v, c.level, nil
		}
	}
	var zero T
	return zero, types.LevelMissing, errors.NewMissingDataError(parameter)
}

// resolver resolves individual parameters for one asset's inputs through the
// override -> trade -> state -> servicer -> default precedence order. It is
// read-only; every method may be called any number of times.
type resolver struct {
	e  *Engine
	in *Inputs
}

func (e *Engine) newResolver(in *Inputs) *resolver {
	return &resolver{e: e, in: in}
}

// AcquisitionPrice resolves the modeled purchase price. Only an explicit
// loan-level override can supply it; there is no trade or benchmark fallback.
func (r *resolver) AcquisitionPrice() (decimal.Decimal, types.AssumptionLevel, error) {
	return resolveChain("acquisition_price",
		candidate[decimal.Decimal]{types.LevelOverride, func() (decimal.Decimal, bool) {
			if r.in.Override != nil && r.in.Override.AcquisitionPrice != nil {
				return *r.in.Override.AcquisitionPrice, true
			}
			return decimal.Zero, false
		}},
	)
}

// BrokerFeePct resolves the acquisition broker fee percentage
func (r *resolver) BrokerFeePct() (float64, types.AssumptionLevel) {
	v, lvl, _ := resolveChain("broker_fee_pct",
		candidate[float64]{types.LevelTrade, r.tradeFloat(func(t *models.TradeAssumptions) *float64 { return t.BrokerFeePct })},
		candidate[float64]{types.LevelDefault, constant(r.e.cfg.DefaultBrokerFeePct)},
	)
	return v, lvl
}

// OtherFeePct resolves the miscellaneous acquisition fee percentage
func (r *resolver) OtherFeePct() (float64, types.AssumptionLevel) {
	v, lvl, _ := resolveChain("other_fee_pct",
		candidate[float64]{types.LevelTrade, r.tradeFloat(func(t *models.TradeAssumptions) *float64 { return t.OtherFeePct })},
		candidate[float64]{types.LevelDefault, constant(r.e.cfg.DefaultOtherFeePct)},
	)
	return v, lvl
}

// TransferMonths resolves the servicing-transfer window when the trade has no
// explicit settlement and transfer dates
func (r *resolver) TransferMonths() (int, types.AssumptionLevel) {
	v, lvl, _ := resolveChain("servicing_transfer_duration",
		candidate[int]{types.LevelServicer, func() (int, bool) {
			if r.in.Servicer != nil && r.in.Servicer.DefaultTransferMonths != nil {
				return *r.in.Servicer.DefaultTransferMonths, true
			}
			return 0, false
		}},
		candidate[int]{types.LevelDefault, constant(r.e.cfg.DefaultTransferMonths)},
	)
	return v, lvl
}

// ForeclosureDays resolves the state benchmark foreclosure duration in days
func (r *resolver) ForeclosureDays() (int, types.AssumptionLevel, error) {
	return resolveChain("foreclosure_days",
		candidate[int]{types.LevelState, func() (int, bool) {
			if r.in.StateRef != nil {
				return r.in.StateRef.ForeclosureDays, true
			}
			return 0, false
		}},
	)
}

// RenovationMonthsBase resolves the REO rehab baseline
func (r *resolver) RenovationMonthsBase() (int, types.AssumptionLevel, error) {
	return resolveChain("renovation_months",
		candidate[int]{types.LevelState, func() (int, bool) {
			if r.in.StateRef != nil {
				return r.in.StateRef.RehabMonths, true
			}
			return 0, false
		}},
	)
}

// MarketingMonthsBase resolves the REO marketing baseline
func (r *resolver) MarketingMonthsBase() (int, types.AssumptionLevel, error) {
	return resolveChain("marketing_months",
		candidate[int]{types.LevelState, func() (int, bool) {
			if r.in.StateRef != nil {
				return r.in.StateRef.MarketingMonths, true
			}
			return 0, false
		}},
	)
}

// StateLegalFee resolves the state benchmark legal fee flat
func (r *resolver) StateLegalFee() (decimal.Decimal, types.AssumptionLevel, error) {
	return resolveChain("state_legal_fee",
		candidate[decimal.Decimal]{types.LevelState, func() (decimal.Decimal, bool) {
			if r.in.StateRef != nil {
				return r.in.StateRef.AvgLegalFee, true
			}
			return decimal.Zero, false
		}},
	)
}

// TaxMonthlyRate resolves the monthly property-tax carry rate: explicit trade
// rate, then the square-footage model, then the property-type table, then the
// configured default.
func (r *resolver) TaxMonthlyRate() (decimal.Decimal, types.AssumptionLevel) {
	v, lvl, _ := resolveChain("tax_monthly_rate",
		candidate[decimal.Decimal]{types.LevelTrade, r.tradeDecimal(func(t *models.TradeAssumptions) *decimal.Decimal { return t.TaxMonthlyRate })},
		candidate[decimal.Decimal]{types.LevelState, r.sqftRate(r.e.cfg.TaxRatePerSqft)},
		candidate[decimal.Decimal]{types.LevelDefault, r.propertyTypeFlat(r.e.cfg.TaxMonthlyByPropertyType)},
		candidate[decimal.Decimal]{types.LevelDefault, constant(decimal.NewFromFloat(r.e.cfg.DefaultTaxMonthlyRate))},
	)
	return v, lvl
}

// InsuranceMonthlyRate resolves the monthly insurance carry rate with the same
// sqft-first, property-type, default-last chain as taxes
func (r *resolver) InsuranceMonthlyRate() (decimal.Decimal, types.AssumptionLevel) {
	v, lvl, _ := resolveChain("insurance_monthly_rate",
		candidate[decimal.Decimal]{types.LevelTrade, r.tradeDecimal(func(t *models.TradeAssumptions) *decimal.Decimal { return t.InsuranceMonthlyRate })},
		candidate[decimal.Decimal]{types.LevelState, r.sqftRate(r.e.cfg.InsuranceRatePerSqft)},
		candidate[decimal.Decimal]{types.LevelDefault, r.propertyTypeFlat(r.e.cfg.InsuranceMonthlyByPropertyType)},
		candidate[decimal.Decimal]{types.LevelDefault, constant(decimal.NewFromFloat(r.e.cfg.DefaultInsuranceMonthlyRate))},
	)
	return v, lvl
}

// AMLiquidationFeePct resolves the asset-manager liquidation fee percentage
func (r *resolver) AMLiquidationFeePct() (float64, types.AssumptionLevel, error) {
	return resolveChain("am_liquidation_fee_pct",
		candidate[float64]{types.LevelTrade, r.tradeFloat(func(t *models.TradeAssumptions) *float64 { return t.AMLiquidationFeePct })},
	)
}

// TrashoutCost resolves the one-time REO trashout cost: square footage model
// first, then the property-type table.
func (r *resolver) TrashoutCost() (decimal.Decimal, types.AssumptionLevel, error) {
	return resolveChain("trashout_cost",
		candidate[decimal.Decimal]{types.LevelState, r.sqftRate(r.e.cfg.TrashoutCostPerSqft)},
		candidate[decimal.Decimal]{types.LevelDefault, r.propertyTypeFlat(r.e.cfg.TrashoutByPropertyType)},
	)
}

// RenovationBudget resolves the REO renovation cost with the same pattern
func (r *resolver) RenovationBudget() (decimal.Decimal, types.AssumptionLevel, error) {
	return resolveChain("renovation_cost",
		candidate[decimal.Decimal]{types.LevelState, r.sqftRate(r.e.cfg.RenovationCostPerSqft)},
		candidate[decimal.Decimal]{types.LevelDefault, r.propertyTypeFlat(r.e.cfg.RenovationByPropertyType)},
	)
}

// Lookup helpers shared by the chains above.

func constant[T any](v T) func() (T, bool) {
	return func() (T, bool) { return v, true }
}

func (r *resolver) tradeFloat(field func(*models.TradeAssumptions) *float64) func() (float64, bool) {
	return func() (float64, bool) {
		if r.in.Trade != nil {
			if p := field(r.in.Trade); p != nil {
				return *p, true
			}
		}
		return 0, false
	}
}

func (r *resolver) tradeDecimal(field func(*models.TradeAssumptions) *decimal.Decimal) func() (decimal.Decimal, bool) {
	return func() (decimal.Decimal, bool) {
		if r.in.Trade != nil {
			if p := field(r.in.Trade); p != nil {
				return *p, true
			}
		}
		return decimal.Zero, false
	}
}

// sqftRate applies a per-square-foot rate when the asset's square footage is
// known and positive
func (r *resolver) sqftRate(ratePerSqft float64) func() (decimal.Decimal, bool) {
	return func() (decimal.Decimal, bool) {
		if r.in.Asset.SquareFootage != nil && *r.in.Asset.SquareFootage > 0 {
			sqft := decimal.NewFromInt(int64(*r.in.Asset.SquareFootage))
			return sqft.Mul(decimal.NewFromFloat(ratePerSqft)).Round(2), true
		}
		return decimal.Zero, false
	}
}

// propertyTypeFlat looks up a flat amount by the asset's property type
func (r *resolver) propertyTypeFlat(table map[string]float64) func() (decimal.Decimal, bool) {
	return func() (decimal.Decimal, bool) {
		if flat, ok := table[r.in.Asset.PropertyType]; ok {
			return decimal.NewFromFloat(flat), true
		}
		return decimal.Zero, false
	}
}
