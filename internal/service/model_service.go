package service

import (
	"context"
	"time"

	"github.com/asset-disposition/internal/engine"
	apperrors "github.com/asset-disposition/internal/errors"
	"github.com/asset-disposition/internal/logging"
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/retry"
	"github.com/asset-disposition/internal/types"
	"github.com/shopspring/decimal"
)

// Repository interfaces for dependency injection

// AssetRepository interface for asset data operations
type AssetRepository interface {
	Get(ctx context.Context, id string) (*models.Asset, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Asset, error)
	ListByTrade(ctx context.Context, tradeID string) ([]*models.Asset, error)
}

// OverrideRepository interface for loan-level override operations
type OverrideRepository interface {
	GetLoanOverride(ctx context.Context, assetID string) (*models.LoanLevelOverride, error)
	UpsertDurationDelta(ctx context.Context, assetID, column string, deltaMonths int) error
	UpsertAcquisitionPrice(ctx context.Context, assetID string, price decimal.Decimal) error
}

// ReferenceStore interface for the shared reference records consulted on
// every model run (cached read-through in production)
type ReferenceStore interface {
	GetTradeAssumptions(ctx context.Context, tradeID string) (*models.TradeAssumptions, error)
	GetStateReference(ctx context.Context, stateCode string) (*models.StateReference, error)
	GetServicerFeeSchedule(ctx context.Context, servicerID string) (*models.ServicerFeeSchedule, error)
}

// ValuationRepository interface for valuation data operations
type ValuationRepository interface {
	GetValuations(ctx context.Context, assetID string) ([]*models.Valuation, error)
}

// DurationField identifies which override column a duration delta targets.
// Foreclosure carries two fields because the FC-sale and REO strategies keep
// independent foreclosure adjustments.
type DurationField string

const (
	FieldFCDuration         DurationField = "fc"
	FieldREOFCDuration      DurationField = "reo_fc"
	FieldRenovationDuration DurationField = "renovation"
	FieldMarketingDuration  DurationField = "marketing"
)

// phase returns the timeline phase the field adjusts
func (f DurationField) phase() types.Phase {
	switch f {
	case FieldFCDuration, FieldREOFCDuration:
		return types.PhaseForeclosure
	case FieldRenovationDuration:
		return types.PhaseRenovation
	case FieldMarketingDuration:
		return types.PhaseMarketing
	}
	return ""
}

// column returns the loan_level_overrides column the field writes
func (f DurationField) column() string {
	switch f {
	case FieldFCDuration:
		return "fc_duration_delta"
	case FieldREOFCDuration:
		return "reo_fc_duration_delta"
	case FieldRenovationDuration:
		return "renovation_duration_delta"
	case FieldMarketingDuration:
		return "marketing_duration_delta"
	}
	return ""
}

// ModelService orchestrates model runs: it assembles engine inputs from the
// repositories and caches, runs the pure calculation pipeline, and applies
// override writes
type ModelService struct {
	assets        AssetRepository
	overrides     OverrideRepository
	refs          ReferenceStore
	valuations    ValuationRepository
	engine        *engine.Engine
	workers       int
	lookupTimeout time.Duration
}

// NewModelService creates a new model service
func NewModelService(
	assets AssetRepository,
	overrides OverrideRepository,
	refs ReferenceStore,
	valuations ValuationRepository,
	eng *engine.Engine,
	workers int,
	lookupTimeout time.Duration,
) *ModelService {
	if workers < 1 {
		workers = 1
	}
	return &ModelService{
		assets:        assets,
		overrides:     overrides,
		refs:          refs,
		valuations:    valuations,
		engine:        eng,
		workers:       workers,
		lookupTimeout: lookupTimeout,
	}
}

// GetModel computes the model bundle for one asset, strategy and scenario
func (s *ModelService) GetModel(ctx context.Context, assetID string, strategy types.Strategy, scenario types.Scenario) (*models.ModelResult, error) {
	if !strategy.Valid() {
		return nil, apperrors.NewValidationError("strategy", "must be 'fc' or 'reo'")
	}
	if !scenario.Valid() {
		return nil, apperrors.NewValidationError("scenario", "must be 'asis' or 'arv'")
	}

	asset, err := s.assets.Get(ctx, assetID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get asset", err)
	}
	if asset == nil {
		return nil, apperrors.NewNotFoundError("asset", assetID)
	}

	inputs := s.loadInputs(ctx, asset)
	return s.engine.Run(inputs, strategy, scenario), nil
}

// StrategyComparison holds the FC-sale and REO bundles for one asset side
// by side, with the higher net P&L flagged
type StrategyComparison struct {
	AssetID             string              `json:"asset_id"`
	Scenario            types.Scenario      `json:"scenario"`
	Foreclosure         *models.ModelResult `json:"fc"`
	REO                 *models.ModelResult `json:"reo"`
	RecommendedStrategy types.Strategy      `json:"recommended_strategy"`
}

// GetComparison computes both strategies for one asset under the same
// scenario and recommends the one with the higher net P&L
func (s *ModelService) GetComparison(ctx context.Context, assetID string, scenario types.Scenario) (*StrategyComparison, error) {
	if !scenario.Valid() {
		return nil, apperrors.NewValidationError("scenario", "must be 'asis' or 'arv'")
	}

	asset, err := s.assets.Get(ctx, assetID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get asset", err)
	}
	if asset == nil {
		return nil, apperrors.NewNotFoundError("asset", assetID)
	}

	inputs := s.loadInputs(ctx, asset)
	fc := s.engine.Run(inputs, types.StrategyForeclosure, scenario)
	reo := s.engine.Run(inputs, types.StrategyREO, scenario)

	recommended := types.StrategyForeclosure
	if reo.Metrics.NetPL.GreaterThan(fc.Metrics.NetPL) {
		recommended = types.StrategyREO
	}

	return &StrategyComparison{
		AssetID:             assetID,
		Scenario:            scenario,
		Foreclosure:         fc,
		REO:                 reo,
		RecommendedStrategy: recommended,
	}, nil
}

// SetDurationOverride writes one duration delta for an asset, creating the
// override row on first write. The asset must exist; deltas may be negative
// because the engine clamps phase durations at zero.
func (s *ModelService) SetDurationOverride(ctx context.Context, assetID string, field DurationField, deltaMonths int) error {
	phase := field.phase()
	if phase == "" || !phase.Overridable() {
		return apperrors.NewValidationError("field", "unknown duration override target")
	}

	asset, err := s.assets.Get(ctx, assetID)
	if err != nil {
		return apperrors.NewDatabaseError("get asset", err)
	}
	if asset == nil {
		return apperrors.NewNotFoundError("asset", assetID)
	}

	if err := s.overrides.UpsertDurationDelta(ctx, assetID, field.column(), deltaMonths); err != nil {
		return apperrors.NewDatabaseError("upsert duration override", err)
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"asset_id":     assetID,
		"field":        string(field),
		"delta_months": deltaMonths,
	}).Info("Duration override saved")

	return nil
}

// SetAcquisitionPrice writes the explicit acquisition price for an asset
func (s *ModelService) SetAcquisitionPrice(ctx context.Context, assetID string, price decimal.Decimal) error {
	if price.IsNegative() {
		return apperrors.NewValidationError("acquisition_price", "must not be negative")
	}

	asset, err := s.assets.Get(ctx, assetID)
	if err != nil {
		return apperrors.NewDatabaseError("get asset", err)
	}
	if asset == nil {
		return apperrors.NewNotFoundError("asset", assetID)
	}

	if err := s.overrides.UpsertAcquisitionPrice(ctx, assetID, price); err != nil {
		return apperrors.NewDatabaseError("upsert acquisition price", err)
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"asset_id": assetID,
		"price":    price.String(),
	}).Info("Acquisition price saved")

	return nil
}

// loadInputs gathers the assumption hierarchy and valuations for one asset.
// Every lookup is bounded and retried; a lookup that still fails leaves its
// input nil, and the engine reports the affected parameters as missing
// instead of the run failing.
func (s *ModelService) loadInputs(ctx context.Context, asset *models.Asset) *engine.Inputs {
	logger := logging.FromContext(ctx).WithField("asset_id", asset.ID)
	in := &engine.Inputs{Asset: asset}

	s.lookup(ctx, logger, "trade_assumptions", func(ctx context.Context) error {
		trade, err := s.refs.GetTradeAssumptions(ctx, asset.TradeID)
		if err != nil {
			return err
		}
		in.Trade = trade
		return nil
	})

	s.lookup(ctx, logger, "loan_override", func(ctx context.Context) error {
		override, err := s.overrides.GetLoanOverride(ctx, asset.ID)
		if err != nil {
			return err
		}
		in.Override = override
		return nil
	})

	s.lookup(ctx, logger, "state_reference", func(ctx context.Context) error {
		ref, err := s.refs.GetStateReference(ctx, asset.State)
		if err != nil {
			return err
		}
		in.StateRef = ref
		return nil
	})

	if in.Trade != nil && in.Trade.ServicerID != nil {
		servicerID := *in.Trade.ServicerID
		s.lookup(ctx, logger, "servicer_fee_schedule", func(ctx context.Context) error {
			sched, err := s.refs.GetServicerFeeSchedule(ctx, servicerID)
			if err != nil {
				return err
			}
			in.Servicer = sched
			return nil
		})
	}

	s.lookup(ctx, logger, "valuations", func(ctx context.Context) error {
		vals, err := s.valuations.GetValuations(ctx, asset.ID)
		if err != nil {
			return err
		}
		in.Valuations = vals
		return nil
	})

	return in
}

// lookup runs one reference fetch under the configured timeout with retries.
// Exhaustion degrades to a warning; the caller's input stays nil.
func (s *ModelService) lookup(ctx context.Context, logger *logging.Logger, name string, fn func(ctx context.Context) error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	err := retry.Do(lookupCtx, func(ctx context.Context, attempt int) error {
		return fn(ctx)
	})
	if err != nil {
		logger.WithError(err).Warnf("Lookup %s failed, treating as missing", name)
	}
}
