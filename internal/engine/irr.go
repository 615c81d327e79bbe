package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Bisection bracket for the periodic IRR. The lower bound sits just above
// -100% per period; the upper bound is generous enough for any realistic
// disposition outcome.
const (
	irrBracketLow  = -0.9999
	irrBracketHigh = 10.0
)

// solveIRR finds the periodic rate r with NPV(cashflow, r) = 0 by bisection,
// bounded by the configured iteration count and tolerance. Degenerate series
// (fewer than two periods, no sign change, or a bracket that does not
// straddle a root) return an error; callers report the metric as zero.
func (e *Engine) solveIRR(cashflow []decimal.Decimal) (float64, error) {
	if len(cashflow) < 2 {
		return 0, fmt.Errorf("cash-flow series has %d periods, need at least 2", len(cashflow))
	}

	flows := make([]float64, len(cashflow))
	for i, cf := range cashflow {
		flows[i] = cf.InexactFloat64()
	}

	if !hasSignChange(flows) {
		return 0, fmt.Errorf("cash-flow series has no sign change")
	}

	lo, hi := irrBracketLow, irrBracketHigh
	fLo := npvAt(flows, lo)
	fHi := npvAt(flows, hi)
	if fLo*fHi > 0 {
		return 0, fmt.Errorf("no IRR root within bracket [%g, %g]", lo, hi)
	}

	for i := 0; i < e.cfg.IRRMaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid := npvAt(flows, mid)

		if math.Abs(fMid) < e.cfg.IRRTolerance || (hi-lo)/2 < e.cfg.IRRTolerance {
			return mid, nil
		}

		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
	}

	return 0, fmt.Errorf("IRR did not converge within %d iterations", e.cfg.IRRMaxIterations)
}

func hasSignChange(flows []float64) bool {
	sawNegative, sawPositive := false, false
	for _, f := range flows {
		if f < 0 {
			sawNegative = true
		}
		if f > 0 {
			sawPositive = true
		}
	}
	return sawNegative && sawPositive
}

func npvAt(flows []float64, rate float64) float64 {
	total := 0.0
	for t, f := range flows {
		total += f / math.Pow(1+rate, float64(t))
	}
	return total
}
