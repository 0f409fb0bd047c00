package store

import (
	"errors"
	"fmt"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RuleStore is the durable per-user rule collection. A (user, kind) pair maps
// to at most one row, enforced by the composite unique index on the model.
type RuleStore struct {
	db *gorm.DB
}

// NewRuleStore creates a new RuleStore.
func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{db: db}
}

// ListRules returns all rules a user has defined. Order carries no meaning to
// the evaluator; rows come back in kind order for stable display.
func (s *RuleStore) ListRules(userID uint) ([]models.Rule, error) {
	var ruleSet []models.Rule
	if err := s.db.Where("user_id = ?", userID).Order("rule_type").Find(&ruleSet).Error; err != nil {
		return nil, fmt.Errorf("failed to list rules for user %d: %w", userID, err)
	}
	return ruleSet, nil
}

// UpsertRule inserts a rule or, when the user already has one of that kind,
// replaces its allowed values in place. The unique index serializes concurrent
// upserts for the same (user, kind) so last write wins.
func (s *RuleStore) UpsertRule(userID uint, kind models.RuleKind, allowedValues []string) (*models.Rule, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "rule_type", Reason: fmt.Sprintf("unknown rule kind %q", kind)}
	}
	if len(allowedValues) == 0 {
		return nil, &ValidationError{Field: "allowed_values", Reason: "must not be empty"}
	}

	rule := models.Rule{
		UserID:        userID,
		RuleType:      kind,
		AllowedValues: allowedValues,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "rule_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"allowed_values", "updated_at"}),
	}).Create(&rule).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %s rule for user %d: %w", kind, userID, err)
	}

	// On conflict the insert id is not the surviving row's id; re-read the row
	// so callers always get the persisted state.
	var saved models.Rule
	if err := s.db.Where("user_id = ? AND rule_type = ?", userID, kind).First(&saved).Error; err != nil {
		return nil, fmt.Errorf("failed to load upserted %s rule for user %d: %w", kind, userID, err)
	}
	return &saved, nil
}

// DeleteRule removes a rule by id. Deleting a missing id is not an error.
// The delete is unscoped: a soft-deleted row would keep occupying the
// (user_id, rule_type) unique index and block re-creating the rule.
func (s *RuleStore) DeleteRule(ruleID uint) error {
	err := s.db.Unscoped().Delete(&models.Rule{}, ruleID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to delete rule %d: %w", ruleID, err)
	}
	return nil
}
