package store

import (
	"testing"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUpsertRule_CreatesThenReplaces(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	s := NewRuleStore(db)

	// Act: create, then upsert the same kind again
	first, err := s.UpsertRule(1, models.RuleKindPair, []string{"EUR/USD"})
	assert.NoError(t, err)
	second, err := s.UpsertRule(1, models.RuleKindPair, []string{"GBP/USD"})
	assert.NoError(t, err)

	// Assert: exactly one pair rule remains, with the replaced values
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"GBP/USD"}, second.AllowedValues)

	ruleSet, err := s.ListRules(1)
	assert.NoError(t, err)
	assert.Len(t, ruleSet, 1)
	assert.Equal(t, []string{"GBP/USD"}, ruleSet[0].AllowedValues)
}

func TestUpsertRule_KindsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	s := NewRuleStore(db)

	_, err := s.UpsertRule(1, models.RuleKindPair, []string{"EUR/USD"})
	assert.NoError(t, err)
	_, err = s.UpsertRule(1, models.RuleKindDay, []string{"Monday"})
	assert.NoError(t, err)

	ruleSet, err := s.ListRules(1)
	assert.NoError(t, err)
	assert.Len(t, ruleSet, 2)
}

func TestUpsertRule_UsersAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	s := NewRuleStore(db)

	_, err := s.UpsertRule(1, models.RuleKindPair, []string{"EUR/USD"})
	assert.NoError(t, err)
	_, err = s.UpsertRule(2, models.RuleKindPair, []string{"GBP/USD"})
	assert.NoError(t, err)

	ruleSet, err := s.ListRules(1)
	assert.NoError(t, err)
	assert.Len(t, ruleSet, 1)
	assert.Equal(t, []string{"EUR/USD"}, ruleSet[0].AllowedValues)
}

func TestUpsertRule_RejectsUnknownKind(t *testing.T) {
	db := setupTestDB(t)
	s := NewRuleStore(db)

	_, err := s.UpsertRule(1, "max_drawdown", []string{"5%"})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	// Nothing persisted
	ruleSet, err := s.ListRules(1)
	assert.NoError(t, err)
	assert.Empty(t, ruleSet)
}

func TestUpsertRule_RejectsEmptyAllowedValues(t *testing.T) {
	db := setupTestDB(t)
	s := NewRuleStore(db)

	_, err := s.UpsertRule(1, models.RuleKindPair, nil)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteRule_IsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	s := NewRuleStore(db)

	rule, err := s.UpsertRule(1, models.RuleKindPair, []string{"EUR/USD"})
	assert.NoError(t, err)

	assert.NoError(t, s.DeleteRule(rule.ID))
	// Deleting again, and deleting an id that never existed, are not errors.
	assert.NoError(t, s.DeleteRule(rule.ID))
	assert.NoError(t, s.DeleteRule(9999))

	ruleSet, err := s.ListRules(1)
	assert.NoError(t, err)
	assert.Empty(t, ruleSet)
}

func TestDeleteRule_AllowsRecreation(t *testing.T) {
	// A deleted rule must not keep occupying the (user, kind) unique index.
	db := setupTestDB(t)
	s := NewRuleStore(db)

	rule, err := s.UpsertRule(1, models.RuleKindDay, []string{"Monday"})
	assert.NoError(t, err)
	assert.NoError(t, s.DeleteRule(rule.ID))

	recreated, err := s.UpsertRule(1, models.RuleKindDay, []string{"Friday"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Friday"}, recreated.AllowedValues)
}
