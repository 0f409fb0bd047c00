// Package rules implements the pure trading-discipline rule evaluator.
// It performs no I/O and keeps no state: persistence of its output is the
// caller's job.
package rules

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
)

// Evaluate checks a candidate trade against a user's rule set and returns one
// unsaved violation per broken rule, in rule order. Trade fields that are not
// provided skip the corresponding check; rule kinds this version does not know
// are ignored. Identical input always yields identical output.
func Evaluate(trade models.CandidateTrade, ruleSet []models.Rule) []models.Violation {
	var violations []models.Violation

	for _, rule := range ruleSet {
		var v *models.Violation

		switch rule.RuleType {
		case models.RuleKindPair:
			v = checkPair(trade, rule)
		case models.RuleKindDay:
			v = checkDay(trade, rule)
		case models.RuleKindLotRange:
			v = checkLotRange(trade, rule)
		case models.RuleKindActionDirection:
			v = checkActionDirection(trade, rule)
		default:
			// Unknown kinds are a forward-compatible no-op.
			continue
		}

		if v != nil {
			violations = append(violations, *v)
		}
	}

	return violations
}

// newViolation snapshots the rule's allowed values alongside the offending
// value. TradeID is left for the caller to stamp once the trade id is known.
func newViolation(rule models.Rule, violatedValue string) *models.Violation {
	return &models.Violation{
		UserID:        rule.UserID,
		RuleType:      rule.RuleType,
		ViolatedValue: violatedValue,
		AllowedValues: slices.Clone(rule.AllowedValues),
	}
}

func checkPair(trade models.CandidateTrade, rule models.Rule) *models.Violation {
	if trade.Pair == "" || slices.Contains(rule.AllowedValues, trade.Pair) {
		return nil
	}
	return newViolation(rule, trade.Pair)
}

func checkDay(trade models.CandidateTrade, rule models.Rule) *models.Violation {
	if trade.Day == "" || slices.Contains(rule.AllowedValues, trade.Day) {
		return nil
	}
	return newViolation(rule, trade.Day)
}

func checkLotRange(trade models.CandidateTrade, rule models.Rule) *models.Violation {
	if trade.Lots == nil || inAnyInterval(*trade.Lots, rule.AllowedValues) {
		return nil
	}
	return newViolation(rule, strconv.FormatFloat(*trade.Lots, 'f', -1, 64))
}

func checkActionDirection(trade models.CandidateTrade, rule models.Rule) *models.Violation {
	if !slices.Contains(rule.AllowedValues, models.NoCounterTrend) {
		return nil
	}
	if trade.Action == "" || trade.Direction == "" {
		return nil
	}

	againstTrend := (trade.Action == models.ActionBuy && trade.Direction == models.DirectionBearish) ||
		(trade.Action == models.ActionSell && trade.Direction == models.DirectionBullish)
	if !againstTrend {
		return nil
	}

	return newViolation(rule, fmt.Sprintf("%s when %s", trade.Action, trade.Direction))
}
