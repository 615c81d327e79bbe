package engine

import (
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
	"github.com/shopspring/decimal"
)

// ResolveProceeds picks the expected sale proceeds for one scenario from a
// fixed priority order of valuation sources. Exactly one source is selected;
// sources are never blended or averaged. When no source exists the proceeds
// are zero and a diagnostic fault is recorded.
//
// As-is priority: internal underwriting -> seller tape -> 0.
// ARV priority:   internal underwriting -> seller tape -> as-is x uplift -> 0.
func (e *Engine) ResolveProceeds(in *Inputs, scenario types.Scenario) (decimal.Decimal, types.ValuationSource, []models.FieldFault) {
	if scenario == types.ScenarioARV {
		return e.resolveARV(in)
	}
	return e.resolveAsIs(in)
}

func (e *Engine) resolveAsIs(in *Inputs) (decimal.Decimal, types.ValuationSource, []models.FieldFault) {
	if v := asIsFromSource(in.Valuations, types.SourceInternal); v != nil {
		return *v, types.SourceInternal, nil
	}
	if v := asIsFromSource(in.Valuations, types.SourceSellerTape); v != nil {
		return *v, types.SourceSellerTape, nil
	}
	if in.Asset.TapeAsIsValue != nil {
		return *in.Asset.TapeAsIsValue, types.SourceSellerTape, nil
	}
	return decimal.Zero, "", []models.FieldFault{{
		Field:  "expected_recovery",
		Code:   "MISSING_DATA",
		Reason: "no as-is valuation available from any source",
	}}
}

func (e *Engine) resolveARV(in *Inputs) (decimal.Decimal, types.ValuationSource, []models.FieldFault) {
	if v := arvFromSource(in.Valuations, types.SourceInternal); v != nil {
		return *v, types.SourceInternal, nil
	}
	if v := arvFromSource(in.Valuations, types.SourceSellerTape); v != nil {
		return *v, types.SourceSellerTape, nil
	}
	if in.Asset.TapeARVValue != nil {
		return *in.Asset.TapeARVValue, types.SourceSellerTape, nil
	}

	// No ARV source at all: scale the as-is value by the configured uplift
	asIs, source, faults := e.resolveAsIs(in)
	if source != "" && asIs.IsPositive() {
		uplifted := asIs.Mul(decimal.NewFromFloat(e.cfg.ARVUpliftFactor)).Round(2)
		return uplifted, source, []models.FieldFault{{
			Field:  "expected_recovery",
			Code:   "ARV_UPLIFT_APPLIED",
			Reason: "no ARV source; as-is value scaled by configured uplift factor",
		}}
	}
	return decimal.Zero, "", faults
}

// asIsFromSource returns the as-is value for a source, nil when absent
func asIsFromSource(valuations []*models.Valuation, source types.ValuationSource) *decimal.Decimal {
	for _, v := range valuations {
		if v.Source == source && v.AsIsValue != nil {
			return v.AsIsValue
		}
	}
	return nil
}

func arvFromSource(valuations []*models.Valuation, source types.ValuationSource) *decimal.Decimal {
	for _, v := range valuations {
		if v.Source == source && v.ARVValue != nil {
			return v.ARVValue
		}
	}
	return nil
}
