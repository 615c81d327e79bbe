package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCashFlow(t *testing.T) {
	t.Run("period zero carries the full acquisition outlay", func(t *testing.T) {
		flows := BuildCashFlow(dec("100000"), dec("10000"), dec("12000"), dec("150000"), 12)
		require.Len(t, flows, 13)

		assert.True(t, flows[0].Equal(dec("-110000")))

		// Remaining costs spread evenly over the 12 months
		for m := 1; m < 12; m++ {
			assert.True(t, flows[m].Equal(dec("-1000")), "month %d: %s", m, flows[m])
		}

		// Final month nets proceeds against the last cost share
		assert.True(t, flows[12].Equal(dec("149000")))
	})

	t.Run("series sums to the undiscounted net position", func(t *testing.T) {
		flows := BuildCashFlow(dec("120000"), dec("8250"), dec("17270"), dec("210000"), 20)

		sum := decimal.Zero
		for _, f := range flows {
			sum = sum.Add(f)
		}
		expected := dec("210000").Sub(dec("120000")).Sub(dec("8250")).Sub(dec("17270"))
		assert.True(t, sum.Equal(expected), "sum %s", sum)
	})

	t.Run("non-positive duration yields no series", func(t *testing.T) {
		assert.Nil(t, BuildCashFlow(dec("100000"), dec("1000"), dec("1000"), dec("150000"), 0))
		assert.Nil(t, BuildCashFlow(dec("100000"), dec("1000"), dec("1000"), dec("150000"), -3))
	})
}
