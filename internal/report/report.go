// Package report is the read-only reporting facade over recorded violations.
// Everything here is derived on demand from the violation store; there is no
// cache that can drift from the underlying rows.
package report

import (
	"fmt"
	"strings"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/store"
)

// Reporter answers the UI's summary questions about a trade's violations.
type Reporter struct {
	violations *store.ViolationStore
}

// NewReporter creates a new Reporter.
func NewReporter(violations *store.ViolationStore) *Reporter {
	return &Reporter{violations: violations}
}

// TradeHasViolations reports whether any violation is recorded for the trade.
func (r *Reporter) TradeHasViolations(tradeID uint) (bool, error) {
	count, err := r.violations.CountByTrade(tradeID, false)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UnacknowledgedCount returns how many of the trade's violations are still
// pending review.
func (r *Reporter) UnacknowledgedCount(tradeID uint) (int64, error) {
	return r.violations.CountByTrade(tradeID, true)
}

// Describe renders a one-line human-readable description of a violation.
func Describe(v models.Violation) string {
	label := v.RuleType.Label()
	allowed := strings.Join(v.AllowedValues, ", ")

	switch v.RuleType {
	case models.RuleKindLotRange:
		return fmt.Sprintf("%s: %s lots is outside the allowed ranges (%s)", label, v.ViolatedValue, allowed)
	case models.RuleKindActionDirection:
		return fmt.Sprintf("%s: traded %s", label, v.ViolatedValue)
	default:
		return fmt.Sprintf("%s: %s is not allowed (allowed: %s)", label, v.ViolatedValue, allowed)
	}
}
