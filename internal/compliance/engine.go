package compliance

import (
	"context"
	"fmt"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/rules"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/store"
	"go.uber.org/zap"
)

// Notifier is told about violations after they have been recorded. Delivery is
// best effort; a failed notification never unwinds the recorded rows.
type Notifier interface {
	NotifyViolations(ctx context.Context, trade models.Trade, violations []models.Violation) error
}

// Engine runs the compliance check for a single trade: snapshot the owner's
// rules, evaluate, persist whatever was broken, notify.
type Engine struct {
	logger     *zap.Logger
	rules      *store.RuleStore
	violations *store.ViolationStore
	notifier   Notifier
}

// NewEngine creates a new compliance engine. notifier may be nil.
func NewEngine(logger *zap.Logger, ruleStore *store.RuleStore, violationStore *store.ViolationStore, notifier Notifier) *Engine {
	return &Engine{
		logger:     logger,
		rules:      ruleStore,
		violations: violationStore,
		notifier:   notifier,
	}
}

// CheckTrade evaluates a just-created or just-edited trade against its owner's
// current rules and records every violation found. It returns the persisted
// violations. Each call evaluates against a fresh rule snapshot and records
// its own rows; re-checking an edited trade adds to the audit trail rather
// than replacing earlier findings.
func (e *Engine) CheckTrade(ctx context.Context, trade models.Trade) ([]models.Violation, error) {
	ruleSet, err := e.rules.ListRules(trade.UserID)
	if err != nil {
		return nil, fmt.Errorf("could not load rules for user %d: %w", trade.UserID, err)
	}
	if len(ruleSet) == 0 {
		return nil, nil
	}

	found := rules.Evaluate(trade.Candidate(), ruleSet)
	for i := range found {
		found[i].TradeID = trade.ID
	}

	saved, err := e.violations.RecordViolations(found)
	if err != nil {
		return nil, err
	}

	if len(saved) > 0 {
		e.logger.Info("Trade broke discipline rules",
			zap.Uint("trade_id", trade.ID),
			zap.Uint("user_id", trade.UserID),
			zap.Int("violations", len(saved)),
		)
		if e.notifier != nil {
			if err := e.notifier.NotifyViolations(ctx, trade, saved); err != nil {
				e.logger.Warn("Failed to deliver violation notification",
					zap.Uint("trade_id", trade.ID), zap.Error(err))
			}
		}
	}

	return saved, nil
}
