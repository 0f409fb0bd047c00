package models

import "gorm.io/gorm"

// Violation records that a specific trade broke a specific rule at the time
// it was evaluated. Rows are immutable once written except for the one-way
// Acknowledged flip; AllowedValues is a snapshot of the rule as it stood,
// so later rule edits never rewrite history.
type Violation struct {
	gorm.Model
	TradeID       uint     `gorm:"not null;index" json:"trade_id"`
	UserID        uint     `gorm:"not null;index" json:"user_id"`
	RuleType      RuleKind `gorm:"not null" json:"rule_type"`
	ViolatedValue string   `json:"violated_value"`
	AllowedValues []string `gorm:"serializer:json" json:"allowed_values"`
	Acknowledged  bool     `gorm:"not null;default:false" json:"acknowledged"`
}

func (Violation) TableName() string {
	return "trade_violations"
}
