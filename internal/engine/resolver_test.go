package engine

import (
	"testing"

	"github.com/asset-disposition/internal/errors"
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_AcquisitionPrice(t *testing.T) {
	e := testEngine()

	t.Run("resolves from loan-level override only", func(t *testing.T) {
		in := fullInputs()
		in.Override = &models.LoanLevelOverride{AcquisitionPrice: decPtr("95000")}

		price, level, err := e.newResolver(in).AcquisitionPrice()
		require.NoError(t, err)
		assert.True(t, price.Equal(dec("95000")))
		assert.Equal(t, types.LevelOverride, level)
	})

	t.Run("no override means missing, not a trade fallback", func(t *testing.T) {
		in := fullInputs() // trade populated, no override

		price, level, err := e.newResolver(in).AcquisitionPrice()
		require.Error(t, err)
		assert.True(t, errors.IsMissingData(err))
		assert.True(t, price.IsZero())
		assert.Equal(t, types.LevelMissing, level)
	})
}

func TestResolver_BrokerFeePct(t *testing.T) {
	e := testEngine()

	t.Run("trade level wins", func(t *testing.T) {
		in := fullInputs()
		pct, level := e.newResolver(in).BrokerFeePct()
		assert.Equal(t, 0.04, pct)
		assert.Equal(t, types.LevelTrade, level)
	})

	t.Run("falls back to configured default", func(t *testing.T) {
		in := fullInputs()
		in.Trade.BrokerFeePct = nil

		pct, level := e.newResolver(in).BrokerFeePct()
		assert.Equal(t, e.cfg.DefaultBrokerFeePct, pct)
		assert.Equal(t, types.LevelDefault, level)
	})

	t.Run("nil trade falls back to configured default", func(t *testing.T) {
		in := fullInputs()
		in.Trade = nil

		pct, level := e.newResolver(in).BrokerFeePct()
		assert.Equal(t, e.cfg.DefaultBrokerFeePct, pct)
		assert.Equal(t, types.LevelDefault, level)
	})
}

func TestResolver_TransferMonths(t *testing.T) {
	e := testEngine()

	t.Run("servicer schedule supplies the window", func(t *testing.T) {
		in := fullInputs()
		months, level := e.newResolver(in).TransferMonths()
		assert.Equal(t, 2, months)
		assert.Equal(t, types.LevelServicer, level)
	})

	t.Run("default applies without a servicer", func(t *testing.T) {
		in := fullInputs()
		in.Servicer = nil

		months, level := e.newResolver(in).TransferMonths()
		assert.Equal(t, e.cfg.DefaultTransferMonths, months)
		assert.Equal(t, types.LevelDefault, level)
	})
}

func TestResolver_TaxMonthlyRate(t *testing.T) {
	e := testEngine()

	t.Run("explicit trade rate wins", func(t *testing.T) {
		in := fullInputs()
		in.Trade.TaxMonthlyRate = decPtr("310")

		rate, level := e.newResolver(in).TaxMonthlyRate()
		assert.True(t, rate.Equal(dec("310")))
		assert.Equal(t, types.LevelTrade, level)
	})

	t.Run("square footage model next", func(t *testing.T) {
		in := fullInputs() // 1500 sqft, no trade rate

		rate, level := e.newResolver(in).TaxMonthlyRate()
		// 1500 * 0.12 = 180
		assert.True(t, rate.Equal(dec("180")), "got %s", rate)
		assert.Equal(t, types.LevelState, level)
	})

	t.Run("property type table without square footage", func(t *testing.T) {
		in := fullInputs()
		in.Asset.SquareFootage = nil

		rate, level := e.newResolver(in).TaxMonthlyRate()
		assert.True(t, rate.Equal(dec("220")), "got %s", rate)
		assert.Equal(t, types.LevelDefault, level)
	})

	t.Run("property types carry different rates", func(t *testing.T) {
		sfr := fullInputs()
		sfr.Asset.SquareFootage = nil
		multi := fullInputs()
		multi.Asset.SquareFootage = nil
		multi.Asset.PropertyType = "multifamily"

		sfrRate, _ := e.newResolver(sfr).TaxMonthlyRate()
		multiRate, _ := e.newResolver(multi).TaxMonthlyRate()
		assert.False(t, sfrRate.Equal(multiRate))
		assert.True(t, multiRate.Equal(dec("420")), "got %s", multiRate)
	})

	t.Run("configured default last", func(t *testing.T) {
		in := fullInputs()
		in.Asset.SquareFootage = nil
		in.Asset.PropertyType = "houseboat"

		rate, level := e.newResolver(in).TaxMonthlyRate()
		assert.True(t, rate.Equal(dec("250")))
		assert.Equal(t, types.LevelDefault, level)
	})
}

func TestResolver_InsuranceMonthlyRate(t *testing.T) {
	e := testEngine()

	t.Run("square footage model", func(t *testing.T) {
		in := fullInputs() // 1500 sqft
		rate, level := e.newResolver(in).InsuranceMonthlyRate()
		// 1500 * 0.05 = 75
		assert.True(t, rate.Equal(dec("75")), "got %s", rate)
		assert.Equal(t, types.LevelState, level)
	})

	t.Run("property type table without square footage", func(t *testing.T) {
		in := fullInputs()
		in.Asset.SquareFootage = nil
		in.Asset.PropertyType = "condo"

		rate, level := e.newResolver(in).InsuranceMonthlyRate()
		assert.True(t, rate.Equal(dec("65")), "got %s", rate)
		assert.Equal(t, types.LevelDefault, level)
	})

	t.Run("configured default for unknown property type", func(t *testing.T) {
		in := fullInputs()
		in.Asset.SquareFootage = nil
		in.Asset.PropertyType = "houseboat"

		rate, _ := e.newResolver(in).InsuranceMonthlyRate()
		assert.True(t, rate.Equal(dec("100")))
	})
}

func TestResolver_TrashoutCost(t *testing.T) {
	e := testEngine()

	t.Run("square footage model first", func(t *testing.T) {
		in := fullInputs()
		cost, level, err := e.newResolver(in).TrashoutCost()
		require.NoError(t, err)
		// 1500 * 1.25 = 1875
		assert.True(t, cost.Equal(dec("1875")), "got %s", cost)
		assert.Equal(t, types.LevelState, level)
	})

	t.Run("property type table without square footage", func(t *testing.T) {
		in := fullInputs()
		in.Asset.SquareFootage = nil

		cost, level, err := e.newResolver(in).TrashoutCost()
		require.NoError(t, err)
		assert.True(t, cost.Equal(dec("2500")))
		assert.Equal(t, types.LevelDefault, level)
	})

	t.Run("unknown property type is missing", func(t *testing.T) {
		in := fullInputs()
		in.Asset.SquareFootage = nil
		in.Asset.PropertyType = "houseboat"

		cost, level, err := e.newResolver(in).TrashoutCost()
		require.Error(t, err)
		assert.True(t, errors.IsMissingData(err))
		assert.True(t, cost.IsZero())
		assert.Equal(t, types.LevelMissing, level)
	})
}

func TestResolver_AMLiquidationFeePct(t *testing.T) {
	e := testEngine()

	t.Run("trade supplies the fee", func(t *testing.T) {
		in := fullInputs()
		pct, level, err := e.newResolver(in).AMLiquidationFeePct()
		require.NoError(t, err)
		assert.Equal(t, 0.01, pct)
		assert.Equal(t, types.LevelTrade, level)
	})

	t.Run("no trade fee means missing, no default", func(t *testing.T) {
		in := fullInputs()
		in.Trade.AMLiquidationFeePct = nil

		_, level, err := e.newResolver(in).AMLiquidationFeePct()
		require.Error(t, err)
		assert.Equal(t, types.LevelMissing, level)
	})
}

func TestResolver_StateBenchmarks(t *testing.T) {
	e := testEngine()

	t.Run("state reference supplies durations and legal fee", func(t *testing.T) {
		in := fullInputs()
		r := e.newResolver(in)

		days, _, err := r.ForeclosureDays()
		require.NoError(t, err)
		assert.Equal(t, 540, days)

		fee, _, err := r.StateLegalFee()
		require.NoError(t, err)
		assert.True(t, fee.Equal(dec("5500")))
	})

	t.Run("missing state reference has no fallback", func(t *testing.T) {
		in := fullInputs()
		in.StateRef = nil
		r := e.newResolver(in)

		_, _, err := r.ForeclosureDays()
		assert.True(t, errors.IsMissingData(err))

		_, _, err = r.RenovationMonthsBase()
		assert.True(t, errors.IsMissingData(err))

		_, _, err = r.MarketingMonthsBase()
		assert.True(t, errors.IsMissingData(err))
	})
}
