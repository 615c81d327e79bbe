package storage

import (
	"context"
	"fmt"

	"github.com/asset-disposition/internal/models"
)

// ValuationRepository handles valuation records from the scored sources
// (internal underwriting, seller tape, broker, appraisal)
type ValuationRepository struct {
	db *PostgresDB
}

// NewValuationRepository creates a new valuation repository
func NewValuationRepository(db *PostgresDB) *ValuationRepository {
	return &ValuationRepository{db: db}
}

// GetValuations retrieves all valuation records for an asset, most recent
// first within each source
func (r *ValuationRepository) GetValuations(ctx context.Context, assetID string) ([]*models.Valuation, error) {
	query := `
		SELECT asset_id, source, as_is_value, arv_value, effective_date
		FROM valuations
		WHERE asset_id = $1
		ORDER BY source, effective_date DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuations: %w", err)
	}
	defer rows.Close()

	var valuations []*models.Valuation
	for rows.Next() {
		var v models.Valuation
		if err := rows.Scan(&v.AssetID, &v.Source, &v.AsIsValue, &v.ARVValue, &v.EffectiveDate); err != nil {
			return nil, fmt.Errorf("failed to scan valuation: %w", err)
		}
		valuations = append(valuations, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valuations: %w", err)
	}

	return valuations, nil
}
