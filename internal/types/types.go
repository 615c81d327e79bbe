// Package types provides common type definitions for the disposition modeling system.
package types

// Strategy represents a resolution strategy for a distressed asset
type Strategy string

const (
	// StrategyForeclosure models selling the loan through the foreclosure process
	StrategyForeclosure Strategy = "fc"
	// StrategyREO models taking the property into inventory and selling as REO
	StrategyREO Strategy = "reo"
)

// Valid reports whether the strategy is a known value
func (s Strategy) Valid() bool {
	return s == StrategyForeclosure || s == StrategyREO
}

// Scenario represents the sale-value scenario used for proceeds
type Scenario string

const (
	// ScenarioAsIs values the property in its current condition
	ScenarioAsIs Scenario = "asis"
	// ScenarioARV values the property after renovation
	ScenarioARV Scenario = "arv"
)

// Valid reports whether the scenario is a known value
func (s Scenario) Valid() bool {
	return s == ScenarioAsIs || s == ScenarioARV
}

// Phase represents a timeline phase of the disposition process
type Phase string

const (
	// PhaseServicingTransfer covers the boarding window between settlement and transfer
	PhaseServicingTransfer Phase = "servicing_transfer"
	// PhaseForeclosure covers the legal foreclosure process
	PhaseForeclosure Phase = "foreclosure"
	// PhaseRenovation covers REO rehab work
	PhaseRenovation Phase = "renovation"
	// PhaseMarketing covers REO listing and sale
	PhaseMarketing Phase = "marketing"
)

// Valid reports whether the phase is a known value
func (p Phase) Valid() bool {
	switch p {
	case PhaseServicingTransfer, PhaseForeclosure, PhaseRenovation, PhaseMarketing:
		return true
	}
	return false
}

// Overridable reports whether a duration override may target this phase
func (p Phase) Overridable() bool {
	return p == PhaseForeclosure || p == PhaseRenovation || p == PhaseMarketing
}

// ValuationSource identifies where a valuation figure came from
type ValuationSource string

const (
	// SourceInternal represents internal underwriting values
	SourceInternal ValuationSource = "internal_underwriting"
	// SourceSellerTape represents values from the originating seller tape
	SourceSellerTape ValuationSource = "seller_tape"
	// SourceBroker represents broker price opinions
	SourceBroker ValuationSource = "broker"
	// SourceAppraisal represents formal appraisals
	SourceAppraisal ValuationSource = "appraisal"
)

// AssumptionLevel identifies which precedence level supplied a resolved value
type AssumptionLevel string

const (
	// LevelOverride means an explicit per-asset override supplied the value
	LevelOverride AssumptionLevel = "override"
	// LevelTrade means the trade-level assumptions supplied the value
	LevelTrade AssumptionLevel = "trade"
	// LevelState means the state benchmark table supplied the value
	LevelState AssumptionLevel = "state"
	// LevelServicer means the servicer fee schedule supplied the value
	LevelServicer AssumptionLevel = "servicer"
	// LevelDefault means a hard-coded default supplied the value
	LevelDefault AssumptionLevel = "default"
	// LevelMissing means no level could supply the value; callers substitute zero
	LevelMissing AssumptionLevel = "missing"
)

// UserTier represents the API service tier level
type UserTier string

const (
	// TierFree represents the free service tier with limited request rates
	TierFree UserTier = "free"
	// TierPaid represents the paid service tier with full request rates
	TierPaid UserTier = "paid"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
