package models

import (
	"fmt"

	"gorm.io/gorm"
)

// RuleKind identifies one of the fixed categories of trading-discipline rule.
type RuleKind string

const (
	RuleKindPair            RuleKind = "pair"
	RuleKindDay             RuleKind = "day"
	RuleKindLotRange        RuleKind = "lot_range"
	RuleKindActionDirection RuleKind = "action_direction"
)

// NoCounterTrend is the sentinel stored in an action_direction rule's
// allowed values. Its presence forbids trading against the prevailing trend.
const NoCounterTrend = "No"

// ParseRuleKind converts an external string into a RuleKind.
func ParseRuleKind(s string) (RuleKind, error) {
	switch RuleKind(s) {
	case RuleKindPair, RuleKindDay, RuleKindLotRange, RuleKindActionDirection:
		return RuleKind(s), nil
	}
	return "", fmt.Errorf("unknown rule kind %q", s)
}

// Valid reports whether the kind is one of the four known categories.
func (k RuleKind) Valid() bool {
	_, err := ParseRuleKind(string(k))
	return err == nil
}

// Label returns the human-readable name used by the UI and reports.
func (k RuleKind) Label() string {
	switch k {
	case RuleKindPair:
		return "Currency Pair"
	case RuleKindDay:
		return "Trading Day"
	case RuleKindLotRange:
		return "Lot Size Range"
	case RuleKindActionDirection:
		return "Trend Direction"
	}
	return string(k)
}

// Rule is one trading-discipline constraint a user has set for themselves.
// A user holds at most one rule per kind; upserts replace the allowed values.
type Rule struct {
	gorm.Model
	UserID        uint     `gorm:"not null;uniqueIndex:idx_user_rule_type" json:"user_id"`
	RuleType      RuleKind `gorm:"not null;uniqueIndex:idx_user_rule_type" json:"rule_type"`
	AllowedValues []string `gorm:"serializer:json" json:"allowed_values"`
}

func (Rule) TableName() string {
	return "user_trading_rules"
}
