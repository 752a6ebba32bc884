package sim

import (
	"github.com/gcrsim/gcrsim/internal/cqe"
	"github.com/gcrsim/gcrsim/internal/market"
)

// SentimentPolicy and CapitalPolicy are the two fully-stateless decision
// seams an alternative decision engine could replace: Simulation holds them
// as interface-typed fields, defaulting in New to each package's rule-based
// implementation.
//
// CQEPolicy is exposed the same way: *cqe.State itself satisfies it, so the
// default wiring is the identity — Simulation.CQEPolicyImpl is the same
// value as Simulation.CQE, addressed through the interface.
//
// The CEA brake factor is not routed through an interface seam here:
// policy.State.UpdateBrake also maintains the warning flag and the
// permanent net-zero latch, which are core engine bookkeeping rather than
// a swappable decision. policy.BrakePolicy/RuleBasedBrake still exist as
// the extension point for a future variant; see DESIGN.md for why the tick
// loop calls State.UpdateBrake directly instead.
type (
	SentimentPolicy = market.SentimentPolicy
	CapitalPolicy   = market.CapitalPolicy
	CQEPolicy       = cqe.CQEPolicy
)
