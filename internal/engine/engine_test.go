package engine

import (
	"testing"
	"time"

	"github.com/asset-disposition/internal/config"
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixture helpers shared by the engine tests.

func testEngine() *Engine {
	return New(config.LoadEngineConfig())
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// testAsset returns a NJ single-family asset with full tape values
func testAsset() *models.Asset {
	return &models.Asset{
		ID:                  "asset-1",
		TradeID:             "trade-1",
		UPB:                 dec("150000"),
		TotalDebt:           dec("180000"),
		TapeAsIsValue:       decPtr("200000"),
		TapeARVValue:        decPtr("260000"),
		State:               "NJ",
		PropertyType:        "sfr",
		SquareFootage:       intPtr(1500),
		RequiresForeclosure: true,
	}
}

// fullInputs returns inputs with every level of the hierarchy populated
func fullInputs() *Inputs {
	servicerID := "svc-1"
	return &Inputs{
		Asset: testAsset(),
		Trade: &models.TradeAssumptions{
			TradeID:             "trade-1",
			ServicerID:          &servicerID,
			BrokerFeePct:        floatPtr(0.04),
			OtherFeePct:         floatPtr(0.02),
			LegalCost:           decPtr("500"),
			DiligenceCost:       decPtr("250"),
			TaxTitleCost:        decPtr("300"),
			AMLiquidationFeePct: floatPtr(0.01),
		},
		StateRef: &models.StateReference{
			StateCode:       "NJ",
			ForeclosureDays: 540,
			MarketingMonths: 5,
			RehabMonths:     4,
			AvgLegalFee:     dec("5500"),
		},
		Servicer: &models.ServicerFeeSchedule{
			ServicerID:            "svc-1",
			Name:                  "Test Servicing",
			BoardFee:              dec("150"),
			OneTwentyDayFee:       dec("95"),
			FCMonthlyFee:          dec("60"),
			REOMonthlyFee:         dec("45"),
			LiquidationFlatFee:    dec("1000"),
			LiquidationFeePct:     0.015,
			DefaultTransferMonths: intPtr(2),
		},
		Valuations: []*models.Valuation{
			{AssetID: "asset-1", Source: types.SourceInternal, AsIsValue: decPtr("210000"), ARVValue: decPtr("275000")},
		},
	}
}

func TestRun_FullInputs(t *testing.T) {
	e := testEngine()
	in := fullInputs()
	in.Override = &models.LoanLevelOverride{
		AssetID:          "asset-1",
		AcquisitionPrice: decPtr("120000"),
	}

	result := e.Run(in, types.StrategyForeclosure, types.ScenarioAsIs)
	require.NotNil(t, result)

	assert.Equal(t, "asset-1", result.AssetID)
	assert.Equal(t, types.StrategyForeclosure, result.Strategy)
	assert.Equal(t, types.ScenarioAsIs, result.Scenario)
	assert.True(t, result.AcquisitionPrice.Equal(dec("120000")))

	// Internal underwriting wins the proceeds priority
	assert.True(t, result.ExpectedProceeds.Equal(dec("210000")))
	assert.Equal(t, types.SourceInternal, result.ProceedsSource)

	// FC strategy never carries REO phases
	assert.Zero(t, result.Timeline.RenovationMonths)
	assert.Zero(t, result.Timeline.MarketingMonths)
	assert.Positive(t, result.Timeline.ForeclosureMonths)

	// Fully populated inputs produce no missing-data diagnostics
	assert.Empty(t, result.Diagnostics)

	// Net P&L ties out against its own components
	expectedNet := result.ExpectedProceeds.Sub(result.AcquisitionPrice).Sub(result.Expenses.Total)
	assert.True(t, result.Metrics.NetPL.Equal(expectedNet))
}

func TestRun_MissingEverything(t *testing.T) {
	e := testEngine()
	in := &Inputs{
		Asset: &models.Asset{
			ID:                  "bare",
			TradeID:             "trade-x",
			State:               "ZZ",
			PropertyType:        "unknown",
			RequiresForeclosure: true,
		},
	}

	result := e.Run(in, types.StrategyREO, types.ScenarioARV)
	require.NotNil(t, result)

	// Missing data degrades to zeros plus diagnostics, never a failure
	assert.True(t, result.AcquisitionPrice.IsZero())
	assert.True(t, result.ExpectedProceeds.IsZero())
	assert.NotEmpty(t, result.Diagnostics)

	fields := make(map[string]bool)
	for _, f := range result.Diagnostics {
		fields[f.Field] = true
	}
	assert.True(t, fields["acquisition_price"])
	assert.True(t, fields["expected_recovery"])
	assert.True(t, fields["foreclosure_months"])
}

func TestRun_REOCarriesRenovationAndMarketing(t *testing.T) {
	e := testEngine()
	in := fullInputs()
	in.Override = &models.LoanLevelOverride{
		AssetID:          "asset-1",
		AcquisitionPrice: decPtr("120000"),
	}

	result := e.Run(in, types.StrategyREO, types.ScenarioARV)

	assert.Equal(t, 4, result.Timeline.RenovationMonths)
	assert.Equal(t, 5, result.Timeline.MarketingMonths)
	assert.True(t, result.Expenses.RenovationCost.IsPositive())
	assert.True(t, result.ExpectedProceeds.Equal(dec("275000")))
}
