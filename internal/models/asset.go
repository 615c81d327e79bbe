package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset represents one distressed real-estate-secured loan. Assets are
// immutable inputs to the model engine; the ingestion pipeline owns them.
type Asset struct {
	ID            string          `json:"id" db:"id"`
	TradeID       string          `json:"tradeId" db:"trade_id"`
	UPB           decimal.Decimal `json:"upb" db:"upb"`
	TotalDebt     decimal.Decimal `json:"totalDebt" db:"total_debt"`
	// As-is and ARV values as they came in on the originating tape
	TapeAsIsValue *decimal.Decimal `json:"tapeAsIsValue,omitempty" db:"tape_as_is_value"`
	TapeARVValue  *decimal.Decimal `json:"tapeArvValue,omitempty" db:"tape_arv_value"`
	State         string           `json:"state" db:"state"`
	PropertyType  string           `json:"propertyType" db:"property_type"`
	SquareFootage *int             `json:"squareFootage,omitempty" db:"square_footage"`
	// RequiresForeclosure is set when the property must complete foreclosure
	// before it can be taken into REO inventory
	RequiresForeclosure bool      `json:"requiresForeclosure" db:"requires_foreclosure"`
	InREOInventory      bool      `json:"inReoInventory" db:"in_reo_inventory"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}
