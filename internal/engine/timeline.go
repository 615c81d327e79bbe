package engine

import (
	"math"

	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/types"
)

// BuildTimeline composes the ordered phase durations for one strategy.
// Every phase honors effective = max(0, base + delta); a negative final
// duration is clamped, never propagated.
func (e *Engine) BuildTimeline(in *Inputs, strategy types.Strategy) (models.Timeline, []models.FieldFault) {
	var faults []models.FieldFault
	r := e.newResolver(in)

	tl := models.Timeline{}

	tl.ServicingTransferMonths = e.transferMonths(in, r)

	switch strategy {
	case types.StrategyREO:
		// REO passes through foreclosure only when the asset still has title
		// to take; a property already held as REO has no loan to board and
		// nothing left to foreclose
		if in.Asset.InREOInventory {
			tl.ServicingTransferMonths = 0
		} else if in.Asset.RequiresForeclosure {
			tl.ForeclosureMonths = e.foreclosureMonths(in, r, strategy, &faults)
		}

		renoBase := 0
		if m, _, err := r.RenovationMonthsBase(); err != nil {
			faults = append(faults, faultFromError("renovation_months", err))
		} else {
			renoBase = m
		}
		tl.RenovationMonths = clampMonths(renoBase + deltaOrZero(overrideRenovation(in)))

		mktBase := 0
		if m, _, err := r.MarketingMonthsBase(); err != nil {
			faults = append(faults, faultFromError("marketing_months", err))
		} else {
			mktBase = m
		}
		tl.MarketingMonths = clampMonths(mktBase + deltaOrZero(overrideMarketing(in)))

	default:
		tl.ForeclosureMonths = e.foreclosureMonths(in, r, strategy, &faults)
	}

	tl.TotalMonths = tl.ServicingTransferMonths + tl.ForeclosureMonths +
		tl.RenovationMonths + tl.MarketingMonths

	return tl, faults
}

// foreclosureMonths converts the state benchmark days to months and applies
// the strategy's override delta
func (e *Engine) foreclosureMonths(in *Inputs, r *resolver, strategy types.Strategy, faults *[]models.FieldFault) int {
	base := 0
	if days, _, err := r.ForeclosureDays(); err != nil {
		*faults = append(*faults, faultFromError("foreclosure_months", err))
	} else {
		base = e.daysToMonths(days)
	}
	return clampMonths(base + e.fcDelta(in, strategy))
}

// transferMonths computes the servicing-transfer window. When the trade
// carries both settlement and transfer dates the window is derived from the
// actual day count, floored at one month because a transfer is expected; when
// either date is missing the servicer default applies.
func (e *Engine) transferMonths(in *Inputs, r *resolver) int {
	if in.Trade != nil && in.Trade.SettlementDate != nil && in.Trade.ServicingTransferDate != nil {
		days := in.Trade.ServicingTransferDate.Sub(*in.Trade.SettlementDate).Hours() / 24
		months := int(math.Round(days / e.cfg.DaysPerMonth))
		if months <= 0 {
			return 1
		}
		return months
	}

	months, _ := r.TransferMonths()
	return months
}

// fcDelta picks the strategy's foreclosure override delta
func (e *Engine) fcDelta(in *Inputs, strategy types.Strategy) int {
	if in.Override == nil {
		return 0
	}
	if strategy == types.StrategyREO {
		return deltaOrZero(in.Override.REOFCDurationDelta)
	}
	return deltaOrZero(in.Override.FCDurationDelta)
}

func overrideRenovation(in *Inputs) *int {
	if in.Override == nil {
		return nil
	}
	return in.Override.RenovationDurationDelta
}

func overrideMarketing(in *Inputs) *int {
	if in.Override == nil {
		return nil
	}
	return in.Override.MarketingDurationDelta
}

func deltaOrZero(d *int) int {
	if d == nil {
		return 0
	}
	return *d
}

// daysToMonths converts a day count to whole months using the configured
// days-per-month convention
func (e *Engine) daysToMonths(days int) int {
	if days <= 0 {
		return 0
	}
	return int(math.Round(float64(days) / e.cfg.DaysPerMonth))
}

func clampMonths(months int) int {
	if months < 0 {
		return 0
	}
	return months
}
