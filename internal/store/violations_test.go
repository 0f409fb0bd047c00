package store

import (
	"testing"
	"time"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func pairViolation(tradeID, userID uint) models.Violation {
	return models.Violation{
		TradeID:       tradeID,
		UserID:        userID,
		RuleType:      models.RuleKindPair,
		ViolatedValue: "GBP/JPY",
		AllowedValues: []string{"EUR/USD"},
	}
}

func TestRecordViolations_AssignsIDsAndTimestamps(t *testing.T) {
	db := setupTestDB(t)
	s := NewViolationStore(db)

	saved, err := s.RecordViolations([]models.Violation{pairViolation(1, 1)})

	assert.NoError(t, err)
	assert.Len(t, saved, 1)
	assert.NotZero(t, saved[0].ID)
	assert.False(t, saved[0].CreatedAt.IsZero())
	assert.False(t, saved[0].Acknowledged)
}

func TestRecordViolations_EmptyBatchIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	s := NewViolationStore(db)

	saved, err := s.RecordViolations(nil)

	assert.NoError(t, err)
	assert.Empty(t, saved)
}

func TestRecordViolations_DuplicatesKept(t *testing.T) {
	// Re-evaluating the same trade records new rows: repeated offenses are an
	// audit trail, not a deduplication target.
	db := setupTestDB(t)
	s := NewViolationStore(db)

	_, err := s.RecordViolations([]models.Violation{pairViolation(1, 1)})
	assert.NoError(t, err)
	_, err = s.RecordViolations([]models.Violation{pairViolation(1, 1)})
	assert.NoError(t, err)

	records, err := s.ListViolations(ViolationFilter{TradeID: 1})
	assert.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListViolations_FilterValidation(t *testing.T) {
	db := setupTestDB(t)
	s := NewViolationStore(db)

	var verr *ValidationError

	_, err := s.ListViolations(ViolationFilter{})
	assert.ErrorAs(t, err, &verr)

	_, err = s.ListViolations(ViolationFilter{UserID: 1, TradeID: 2})
	assert.ErrorAs(t, err, &verr)

	_, err = s.ListViolations(ViolationFilter{UserID: 1, All: true})
	assert.ErrorAs(t, err, &verr)
}

func TestListViolations_ByUserByTradeAndAll(t *testing.T) {
	db := setupTestDB(t)
	s := NewViolationStore(db)

	_, err := s.RecordViolations([]models.Violation{
		pairViolation(1, 1),
		pairViolation(2, 1),
		pairViolation(3, 2),
	})
	assert.NoError(t, err)

	byUser, err := s.ListViolations(ViolationFilter{UserID: 1})
	assert.NoError(t, err)
	assert.Len(t, byUser, 2)

	byTrade, err := s.ListViolations(ViolationFilter{TradeID: 3})
	assert.NoError(t, err)
	assert.Len(t, byTrade, 1)
	assert.Equal(t, uint(2), byTrade[0].UserID)

	all, err := s.ListViolations(ViolationFilter{All: true})
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListViolations_JoinsTradeAndUserProjections(t *testing.T) {
	db := setupTestDB(t)
	s := NewViolationStore(db)

	user := models.User{Email: "trader@example.com", DisplayName: "Trader"}
	assert.NoError(t, db.Create(&user).Error)

	executed := time.Date(2025, time.June, 6, 9, 30, 0, 0, time.UTC)
	trade := models.Trade{UserID: user.ID, Pair: "GBP/JPY", Action: "Buy", ProfitLoss: -42.5, ExecutedAt: executed}
	assert.NoError(t, db.Create(&trade).Error)

	_, err := s.RecordViolations([]models.Violation{pairViolation(trade.ID, user.ID)})
	assert.NoError(t, err)

	records, err := s.ListViolations(ViolationFilter{TradeID: trade.ID})
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "GBP/JPY", rec.TradePair)
	assert.Equal(t, "Buy", rec.TradeAction)
	assert.Equal(t, -42.5, rec.TradeProfitLoss)
	assert.True(t, executed.Equal(rec.TradeDate))
	assert.Equal(t, "trader@example.com", rec.UserEmail)
	assert.Equal(t, "Trader", rec.UserDisplayName)
}

func TestAcknowledge_FlipsOnce(t *testing.T) {
	db := setupTestDB(t)
	s := NewViolationStore(db)

	saved, err := s.RecordViolations([]models.Violation{pairViolation(1, 1)})
	assert.NoError(t, err)

	// Act
	acked, err := s.Acknowledge(saved[0].ID)
	assert.NoError(t, err)
	assert.True(t, acked.Acknowledged)

	// Acknowledging again is a no-op, not an error.
	again, err := s.Acknowledge(saved[0].ID)
	assert.NoError(t, err)
	assert.True(t, again.Acknowledged)
}

func TestAcknowledge_UnknownIDIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	s := NewViolationStore(db)

	_, err := s.Acknowledge(9999)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcknowledge_DoesNotRewriteHistory(t *testing.T) {
	// The acknowledged flag is the only mutable field.
	db := setupTestDB(t)
	s := NewViolationStore(db)

	saved, err := s.RecordViolations([]models.Violation{pairViolation(1, 1)})
	assert.NoError(t, err)

	acked, err := s.Acknowledge(saved[0].ID)
	assert.NoError(t, err)

	assert.Equal(t, saved[0].TradeID, acked.TradeID)
	assert.Equal(t, saved[0].UserID, acked.UserID)
	assert.Equal(t, saved[0].RuleType, acked.RuleType)
	assert.Equal(t, saved[0].ViolatedValue, acked.ViolatedValue)
	assert.Equal(t, saved[0].AllowedValues, acked.AllowedValues)
}

func TestCountByTrade(t *testing.T) {
	db := setupTestDB(t)
	s := NewViolationStore(db)

	saved, err := s.RecordViolations([]models.Violation{
		pairViolation(1, 1),
		{TradeID: 1, UserID: 1, RuleType: models.RuleKindDay, ViolatedValue: "Friday", AllowedValues: []string{"Monday"}},
	})
	assert.NoError(t, err)

	_, err = s.Acknowledge(saved[0].ID)
	assert.NoError(t, err)

	total, err := s.CountByTrade(1, false)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)

	pending, err := s.CountByTrade(1, true)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}
