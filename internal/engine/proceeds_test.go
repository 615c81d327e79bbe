package engine

import (
	"testing"

	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestResolveProceeds_AsIs(t *testing.T) {
	e := testEngine()

	t.Run("internal underwriting outranks the seller tape", func(t *testing.T) {
		in := fullInputs()
		in.Valuations = []*models.Valuation{
			{Source: types.SourceSellerTape, AsIsValue: decPtr("190000")},
			{Source: types.SourceInternal, AsIsValue: decPtr("210000")},
		}

		v, source, faults := e.ResolveProceeds(in, types.ScenarioAsIs)
		assert.Empty(t, faults)
		assert.True(t, v.Equal(dec("210000")))
		assert.Equal(t, types.SourceInternal, source)
	})

	t.Run("seller tape valuation record next", func(t *testing.T) {
		in := fullInputs()
		in.Valuations = []*models.Valuation{
			{Source: types.SourceSellerTape, AsIsValue: decPtr("190000")},
		}

		v, source, _ := e.ResolveProceeds(in, types.ScenarioAsIs)
		assert.True(t, v.Equal(dec("190000")))
		assert.Equal(t, types.SourceSellerTape, source)
	})

	t.Run("asset tape column as the last source", func(t *testing.T) {
		in := fullInputs()
		in.Valuations = nil

		v, source, _ := e.ResolveProceeds(in, types.ScenarioAsIs)
		assert.True(t, v.Equal(dec("200000")))
		assert.Equal(t, types.SourceSellerTape, source)
	})

	t.Run("no source at all is zero with a fault", func(t *testing.T) {
		in := fullInputs()
		in.Valuations = nil
		in.Asset.TapeAsIsValue = nil

		v, source, faults := e.ResolveProceeds(in, types.ScenarioAsIs)
		assert.True(t, v.IsZero())
		assert.Empty(t, string(source))
		assert.Len(t, faults, 1)
		assert.Equal(t, "expected_recovery", faults[0].Field)
		assert.Equal(t, "MISSING_DATA", faults[0].Code)
	})

	t.Run("sources are never blended", func(t *testing.T) {
		in := fullInputs()
		in.Valuations = []*models.Valuation{
			{Source: types.SourceInternal, AsIsValue: decPtr("100000")},
			{Source: types.SourceSellerTape, AsIsValue: decPtr("900000")},
		}

		v, _, _ := e.ResolveProceeds(in, types.ScenarioAsIs)
		assert.True(t, v.Equal(dec("100000")))
	})
}

func TestResolveProceeds_ARV(t *testing.T) {
	e := testEngine()

	t.Run("internal ARV wins", func(t *testing.T) {
		in := fullInputs()

		v, source, faults := e.ResolveProceeds(in, types.ScenarioARV)
		assert.Empty(t, faults)
		assert.True(t, v.Equal(dec("275000")))
		assert.Equal(t, types.SourceInternal, source)
	})

	t.Run("asset tape ARV before the uplift", func(t *testing.T) {
		in := fullInputs()
		in.Valuations = nil

		v, _, faults := e.ResolveProceeds(in, types.ScenarioARV)
		assert.Empty(t, faults)
		assert.True(t, v.Equal(dec("260000")))
	})

	t.Run("uplift applies when no ARV source exists", func(t *testing.T) {
		in := fullInputs()
		in.Valuations = nil
		in.Asset.TapeARVValue = nil

		v, source, faults := e.ResolveProceeds(in, types.ScenarioARV)
		// 200000 * 1.15
		assert.True(t, v.Equal(dec("230000")), "got %s", v)
		assert.Equal(t, types.SourceSellerTape, source)
		assert.Len(t, faults, 1)
		assert.Equal(t, "ARV_UPLIFT_APPLIED", faults[0].Code)
	})

	t.Run("no as-is either leaves zero with a fault", func(t *testing.T) {
		in := fullInputs()
		in.Valuations = nil
		in.Asset.TapeARVValue = nil
		in.Asset.TapeAsIsValue = nil

		v, _, faults := e.ResolveProceeds(in, types.ScenarioARV)
		assert.True(t, v.IsZero())
		assert.NotEmpty(t, faults)
	})
}
