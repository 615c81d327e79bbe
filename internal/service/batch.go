package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/asset-disposition/internal/errors"
	"github.com/asset-disposition/internal/logging"
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
)

// PoolInput describes one pool model run
type PoolInput struct {
	AssetIDs []string       `json:"asset_ids"`
	Strategy types.Strategy `json:"strategy"`
	Scenario types.Scenario `json:"scenario"`
}

// PoolResult carries the aggregated summary plus each asset's bundle
type PoolResult struct {
	Summary  *models.PoolSummary   `json:"summary"`
	Assets   []*models.ModelResult `json:"assets"`
	Strategy types.Strategy        `json:"strategy"`
	Scenario types.Scenario        `json:"scenario"`
	RunTime  time.Duration         `json:"run_time"`
}

// RunPool computes the model for every asset in the pool on a bounded worker
// pool and rolls the results into pool-level metrics. One asset failing never
// aborts the batch: it contributes a zeroed bundle with a diagnostic and the
// aggregation excludes it via its missing acquisition price.
func (s *ModelService) RunPool(ctx context.Context, input *PoolInput) (*PoolResult, error) {
	if len(input.AssetIDs) == 0 {
		return nil, apperrors.NewValidationError("asset_ids", "must not be empty")
	}
	if !input.Strategy.Valid() {
		return nil, apperrors.NewValidationError("strategy", "must be 'fc' or 'reo'")
	}
	if !input.Scenario.Valid() {
		return nil, apperrors.NewValidationError("scenario", "must be 'asis' or 'arv'")
	}

	startTime := time.Now()
	logger := logging.FromContext(ctx).WithFields(map[string]interface{}{
		"asset_count": len(input.AssetIDs),
		"strategy":    string(input.Strategy),
		"scenario":    string(input.Scenario),
	})
	logger.Info("Starting pool model run")

	assets, err := s.assets.GetByIDs(ctx, input.AssetIDs)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get pool assets", err)
	}
	assetByID := make(map[string]*models.Asset, len(assets))
	for _, a := range assets {
		assetByID[a.ID] = a
	}

	results := make([]*models.ModelResult, len(input.AssetIDs))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				assetID := input.AssetIDs[idx]
				results[idx] = s.runPoolAsset(ctx, assetByID[assetID], assetID, input.Strategy, input.Scenario)
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := range input.AssetIDs {
		select {
		case jobs <- i:
			dispatched++
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return nil, apperrors.NewInternalError("pool run cancelled", ctx.Err())
	}

	summary := s.engine.AggregatePool(results, assets)

	logger.WithFields(map[string]interface{}{
		"included": summary.IncludedCount,
		"excluded": summary.ExcludedCount,
		"duration": time.Since(startTime),
	}).Info("Pool model run complete")

	return &PoolResult{
		Summary:  summary,
		Assets:   results,
		Strategy: input.Strategy,
		Scenario: input.Scenario,
		RunTime:  time.Since(startTime),
	}, nil
}

// runPoolAsset computes one asset's bundle, isolating failures so the batch
// always gets a result for every requested ID
func (s *ModelService) runPoolAsset(ctx context.Context, asset *models.Asset, assetID string, strategy types.Strategy, scenario types.Scenario) (result *models.ModelResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).WithFields(map[string]interface{}{
				"asset_id": assetID,
				"panic":    fmt.Sprintf("%v", r),
			}).Error("Model computation panicked")
			result = failedResult(assetID, strategy, scenario, "CALCULATION_ERROR", fmt.Sprintf("computation failed: %v", r))
		}
	}()

	if asset == nil {
		return failedResult(assetID, strategy, scenario, "ASSET_NOT_FOUND", "asset not found")
	}

	inputs := s.loadInputs(ctx, asset)
	return s.engine.Run(inputs, strategy, scenario)
}

// failedResult builds the zeroed bundle a failed asset contributes to the
// batch. Its zero acquisition price keeps it out of the pool roll-up.
func failedResult(assetID string, strategy types.Strategy, scenario types.Scenario, code, reason string) *models.ModelResult {
	return &models.ModelResult{
		AssetID:  assetID,
		Strategy: strategy,
		Scenario: scenario,
		Diagnostics: []models.FieldFault{
			{Field: "asset", Code: code, Reason: reason},
		},
	}
}
