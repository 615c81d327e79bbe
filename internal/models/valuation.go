package models

import (
	"time"

	"github.com/asset-disposition/internal/types"
	"github.com/shopspring/decimal"
)

// Valuation is a source-tagged as-is/ARV value for an asset. Multiple per
// asset, at most one per source.
type Valuation struct {
	AssetID       string                `json:"assetId" db:"asset_id"`
	Source        types.ValuationSource `json:"source" db:"source"`
	AsIsValue     *decimal.Decimal      `json:"asIsValue,omitempty" db:"as_is_value"`
	ARVValue      *decimal.Decimal      `json:"arvValue,omitempty" db:"arv_value"`
	EffectiveDate time.Time             `json:"effectiveDate" db:"effective_date"`
}
