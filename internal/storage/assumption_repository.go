package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asset-disposition/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AssumptionRepository handles the multi-level assumption hierarchy: trade
// assumptions, loan-level overrides, state benchmarks and servicer fee
// schedules. Reads return (nil, nil) when the record does not exist; the
// engine treats absence as "level cannot supply a value".
type AssumptionRepository struct {
	db *PostgresDB
}

// NewAssumptionRepository creates a new assumption repository
func NewAssumptionRepository(db *PostgresDB) *AssumptionRepository {
	return &AssumptionRepository{db: db}
}

// GetTradeAssumptions retrieves the assumptions record for a trade
func (r *AssumptionRepository) GetTradeAssumptions(ctx context.Context, tradeID string) (*models.TradeAssumptions, error) {
	query := `
		SELECT trade_id, settlement_date, servicing_transfer_date, servicer_id,
			   broker_fee_pct, other_fee_pct, legal_cost, diligence_cost,
			   tax_title_cost, am_liquidation_fee_pct, discount_rate,
			   tax_monthly_rate, insurance_monthly_rate, updated_at
		FROM trade_assumptions
		WHERE trade_id = $1
	`

	var t models.TradeAssumptions
	err := r.db.Pool().QueryRow(ctx, query, tradeID).Scan(
		&t.TradeID,
		&t.SettlementDate,
		&t.ServicingTransferDate,
		&t.ServicerID,
		&t.BrokerFeePct,
		&t.OtherFeePct,
		&t.LegalCost,
		&t.DiligenceCost,
		&t.TaxTitleCost,
		&t.AMLiquidationFeePct,
		&t.DiscountRate,
		&t.TaxMonthlyRate,
		&t.InsuranceMonthlyRate,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trade assumptions: %w", err)
	}
	return &t, nil
}

// GetLoanOverride retrieves the loan-level override for an asset
func (r *AssumptionRepository) GetLoanOverride(ctx context.Context, assetID string) (*models.LoanLevelOverride, error) {
	query := `
		SELECT asset_id, fc_duration_delta, reo_fc_duration_delta,
			   renovation_duration_delta, marketing_duration_delta,
			   acquisition_price, updated_at
		FROM loan_level_overrides
		WHERE asset_id = $1
	`

	var o models.LoanLevelOverride
	err := r.db.Pool().QueryRow(ctx, query, assetID).Scan(
		&o.AssetID,
		&o.FCDurationDelta,
		&o.REOFCDurationDelta,
		&o.RenovationDurationDelta,
		&o.MarketingDurationDelta,
		&o.AcquisitionPrice,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get loan override: %w", err)
	}
	return &o, nil
}

// GetStateReference retrieves the benchmark record for a US state code
func (r *AssumptionRepository) GetStateReference(ctx context.Context, stateCode string) (*models.StateReference, error) {
	query := `
		SELECT state_code, foreclosure_days, marketing_months, rehab_months, avg_legal_fee
		FROM state_references
		WHERE state_code = $1
	`

	var s models.StateReference
	err := r.db.Pool().QueryRow(ctx, query, stateCode).Scan(
		&s.StateCode,
		&s.ForeclosureDays,
		&s.MarketingMonths,
		&s.RehabMonths,
		&s.AvgLegalFee,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get state reference: %w", err)
	}
	return &s, nil
}

// GetServicerFeeSchedule retrieves a servicer's fee schedule
func (r *AssumptionRepository) GetServicerFeeSchedule(ctx context.Context, servicerID string) (*models.ServicerFeeSchedule, error) {
	query := `
		SELECT servicer_id, name, board_fee, one_twenty_day_fee, fc_monthly_fee,
			   reo_monthly_fee, liquidation_flat_fee, liquidation_fee_pct,
			   default_transfer_months
		FROM servicer_fee_schedules
		WHERE servicer_id = $1
	`

	var s models.ServicerFeeSchedule
	err := r.db.Pool().QueryRow(ctx, query, servicerID).Scan(
		&s.ServicerID,
		&s.Name,
		&s.BoardFee,
		&s.OneTwentyDayFee,
		&s.FCMonthlyFee,
		&s.REOMonthlyFee,
		&s.LiquidationFlatFee,
		&s.LiquidationFeePct,
		&s.DefaultTransferMonths,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get servicer fee schedule: %w", err)
	}
	return &s, nil
}

// UpsertDurationDelta writes one phase's duration delta, creating the
// override row lazily on the first write for the asset
func (r *AssumptionRepository) UpsertDurationDelta(ctx context.Context, assetID, column string, deltaMonths int) error {
	switch column {
	case "fc_duration_delta", "reo_fc_duration_delta", "renovation_duration_delta", "marketing_duration_delta":
	default:
		return fmt.Errorf("unknown override column: %s", column)
	}

	query := fmt.Sprintf(`
		INSERT INTO loan_level_overrides (asset_id, %s, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (asset_id)
		DO UPDATE SET %s = $2, updated_at = $3
	`, column, column)

	if _, err := r.db.Pool().Exec(ctx, query, assetID, deltaMonths, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert duration override: %w", err)
	}
	return nil
}

// UpsertAcquisitionPrice writes the explicit per-asset acquisition price,
// creating the override row lazily on the first write
func (r *AssumptionRepository) UpsertAcquisitionPrice(ctx context.Context, assetID string, price decimal.Decimal) error {
	query := `
		INSERT INTO loan_level_overrides (asset_id, acquisition_price, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (asset_id)
		DO UPDATE SET acquisition_price = $2, updated_at = $3
	`

	if _, err := r.db.Pool().Exec(ctx, query, assetID, price, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert acquisition price: %w", err)
	}
	return nil
}
