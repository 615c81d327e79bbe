package service

import (
	"context"
	"testing"

	"github.com/asset-disposition/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPool(t *testing.T) {
	t.Run("computes every asset and aggregates", func(t *testing.T) {
		f := newTestFixture()
		f.assets.assets["asset-2"] = testAsset("asset-2")
		f.overrides.overrides["asset-2"] = f.overrides.overrides["asset-1"]

		result, err := f.service.RunPool(context.Background(), &PoolInput{
			AssetIDs: []string{"asset-1", "asset-2"},
			Strategy: types.StrategyForeclosure,
			Scenario: types.ScenarioAsIs,
		})
		require.NoError(t, err)
		require.NotNil(t, result)

		require.Len(t, result.Assets, 2)
		assert.Equal(t, "asset-1", result.Assets[0].AssetID)
		assert.Equal(t, "asset-2", result.Assets[1].AssetID)

		require.NotNil(t, result.Summary)
		assert.Equal(t, 2, result.Summary.AssetCount)
		assert.Equal(t, 2, result.Summary.IncludedCount)
		assert.True(t, result.Summary.TotalAcquisitionPrice.Equal(dec("240000")))

		assert.Equal(t, types.StrategyForeclosure, result.Strategy)
		assert.Equal(t, types.ScenarioAsIs, result.Scenario)
	})

	t.Run("a missing asset never aborts the batch", func(t *testing.T) {
		f := newTestFixture()

		result, err := f.service.RunPool(context.Background(), &PoolInput{
			AssetIDs: []string{"asset-1", "ghost"},
			Strategy: types.StrategyForeclosure,
			Scenario: types.ScenarioAsIs,
		})
		require.NoError(t, err)
		require.Len(t, result.Assets, 2)

		ghost := result.Assets[1]
		assert.Equal(t, "ghost", ghost.AssetID)
		require.Len(t, ghost.Diagnostics, 1)
		assert.Equal(t, "ASSET_NOT_FOUND", ghost.Diagnostics[0].Code)
		assert.True(t, ghost.AcquisitionPrice.IsZero())

		// The zeroed bundle falls out of the roll-up
		assert.Equal(t, 1, result.Summary.IncludedCount)
		assert.Equal(t, 1, result.Summary.ExcludedCount)
	})

	t.Run("results keep the request order", func(t *testing.T) {
		f := newTestFixture()
		for _, id := range []string{"a", "b", "c", "d", "e"} {
			f.assets.assets[id] = testAsset(id)
		}

		ids := []string{"e", "a", "d", "b", "c"}
		result, err := f.service.RunPool(context.Background(), &PoolInput{
			AssetIDs: ids,
			Strategy: types.StrategyREO,
			Scenario: types.ScenarioARV,
		})
		require.NoError(t, err)
		require.Len(t, result.Assets, len(ids))
		for i, id := range ids {
			assert.Equal(t, id, result.Assets[i].AssetID)
		}
	})

	t.Run("validation", func(t *testing.T) {
		f := newTestFixture()

		_, err := f.service.RunPool(context.Background(), &PoolInput{
			Strategy: types.StrategyForeclosure,
			Scenario: types.ScenarioAsIs,
		})
		requireErrorCode(t, err, "VALIDATION_ERROR")

		_, err = f.service.RunPool(context.Background(), &PoolInput{
			AssetIDs: []string{"asset-1"},
			Strategy: "short_sale",
			Scenario: types.ScenarioAsIs,
		})
		requireErrorCode(t, err, "VALIDATION_ERROR")

		_, err = f.service.RunPool(context.Background(), &PoolInput{
			AssetIDs: []string{"asset-1"},
			Strategy: types.StrategyForeclosure,
			Scenario: "as-is",
		})
		requireErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("cancelled context aborts the run", func(t *testing.T) {
		f := newTestFixture()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.service.RunPool(ctx, &PoolInput{
			AssetIDs: []string{"asset-1"},
			Strategy: types.StrategyForeclosure,
			Scenario: types.ScenarioAsIs,
		})
		require.Error(t, err)
	})
}
