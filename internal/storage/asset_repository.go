package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/asset-disposition/internal/models"
	"github.com/jackc/pgx/v5"
)

// AssetRepository handles asset record persistence. Assets are written by the
// ingestion subsystem; the engine only reads them.
type AssetRepository struct {
	db *PostgresDB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *PostgresDB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `
	id, trade_id, upb, total_debt, tape_as_is_value, tape_arv_value,
	state, property_type, square_footage, requires_foreclosure,
	in_reo_inventory, created_at, updated_at`

// Get retrieves an asset by ID; returns (nil, nil) when not found
func (r *AssetRepository) Get(ctx context.Context, id string) (*models.Asset, error) {
	query := `SELECT` + assetColumns + ` FROM assets WHERE id = $1`

	var a models.Asset
	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.TradeID,
		&a.UPB,
		&a.TotalDebt,
		&a.TapeAsIsValue,
		&a.TapeARVValue,
		&a.State,
		&a.PropertyType,
		&a.SquareFootage,
		&a.RequiresForeclosure,
		&a.InREOInventory,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &a, nil
}

// GetByIDs retrieves multiple assets in one round trip, preserving only
// assets that exist
func (r *AssetRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT` + assetColumns + ` FROM assets WHERE id = ANY($1)`

	rows, err := r.db.Pool().Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(
			&a.ID,
			&a.TradeID,
			&a.UPB,
			&a.TotalDebt,
			&a.TapeAsIsValue,
			&a.TapeARVValue,
			&a.State,
			&a.PropertyType,
			&a.SquareFootage,
			&a.RequiresForeclosure,
			&a.InREOInventory,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}
	return assets, nil
}

// ListByTrade retrieves all assets in a trade
func (r *AssetRepository) ListByTrade(ctx context.Context, tradeID string) ([]*models.Asset, error) {
	query := `SELECT id FROM assets WHERE trade_id = $1 ORDER BY id`

	rows, err := r.db.Pool().Query(ctx, query, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade assets: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan asset id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade assets: %w", err)
	}
	return r.GetByIDs(ctx, ids)
}
