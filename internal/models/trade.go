package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ActionBuy  = "Buy"
	ActionSell = "Sell"

	DirectionBullish = "Bullish"
	DirectionBearish = "Bearish"
)

// Trade is the journal entry a user logs for one executed position.
type Trade struct {
	gorm.Model
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Pair       string    `json:"pair"`
	Action     string    `json:"action"`    // "Buy" or "Sell"
	Direction  string    `json:"direction"` // "Bullish" or "Bearish"
	Lots       float64   `json:"lots"`
	ProfitLoss float64   `json:"profit_loss"`
	ExecutedAt time.Time `json:"executed_at"`
}

// CandidateTrade is the projection of a trade the evaluator sees. Empty
// strings and a nil Lots mean "field not provided"; the evaluator skips the
// corresponding checks instead of failing.
type CandidateTrade struct {
	Pair      string
	Day       string
	Lots      *float64
	Action    string
	Direction string
}

// Candidate builds the evaluation projection for this trade. The trading day
// is derived from the execution time.
func (t *Trade) Candidate() CandidateTrade {
	c := CandidateTrade{
		Pair:      t.Pair,
		Action:    t.Action,
		Direction: t.Direction,
	}
	if !t.ExecutedAt.IsZero() {
		c.Day = t.ExecutedAt.Weekday().String()
	}
	if t.Lots > 0 {
		lots := t.Lots
		c.Lots = &lots
	}
	return c
}
