package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"gorm.io/gorm"
)

// ViolationStore persists evaluator output and answers violation queries.
type ViolationStore struct {
	db *gorm.DB
}

// NewViolationStore creates a new ViolationStore.
func NewViolationStore(db *gorm.DB) *ViolationStore {
	return &ViolationStore{db: db}
}

// ViolationFilter selects which violations to list. Exactly one selector must
// be set; All is restricted to administrators by the caller.
type ViolationFilter struct {
	UserID  uint
	TradeID uint
	All     bool
}

// ViolationRecord is a violation joined with the minimal trade and user
// projections the UI displays. The joined fields are read-only conveniences,
// not part of the violation itself.
type ViolationRecord struct {
	models.Violation
	TradeDate       time.Time `json:"trade_date"`
	TradePair       string    `json:"trade_pair"`
	TradeAction     string    `json:"trade_action"`
	TradeProfitLoss float64   `json:"trade_profit_loss"`
	UserEmail       string    `json:"user_email"`
	UserDisplayName string    `json:"user_display_name"`
}

// RecordViolations persists a batch of unsaved violations, assigning ids and
// timestamps, and returns the persisted rows. The batch is written in a single
// transaction: on error nothing is persisted, so the caller never has to guess
// which entries made it. Re-recording the same trade's violations is allowed
// and produces new rows; repeated offenses are kept as an audit trail.
func (s *ViolationStore) RecordViolations(violations []models.Violation) ([]models.Violation, error) {
	if len(violations) == 0 {
		return nil, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range violations {
			if err := tx.Create(&violations[i]).Error; err != nil {
				return fmt.Errorf("failed to record %s violation for trade %d: %w",
					violations[i].RuleType, violations[i].TradeID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return violations, nil
}

// ListViolations returns violations matching the filter, newest first, joined
// with their trade and user display projections.
func (s *ViolationStore) ListViolations(filter ViolationFilter) ([]ViolationRecord, error) {
	selectors := 0
	for _, set := range []bool{filter.UserID != 0, filter.TradeID != 0, filter.All} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		return nil, &ValidationError{Field: "filter", Reason: "exactly one of user_id, trade_id or all must be set"}
	}

	q := s.db.Order("created_at DESC, id DESC")
	switch {
	case filter.UserID != 0:
		q = q.Where("user_id = ?", filter.UserID)
	case filter.TradeID != 0:
		q = q.Where("trade_id = ?", filter.TradeID)
	}

	var violations []models.Violation
	if err := q.Find(&violations).Error; err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}

	return s.joinProjections(violations)
}

// joinProjections stitches the trade and user display fields onto each
// violation. Trades or users deleted since the violation was recorded simply
// leave their projection empty.
func (s *ViolationStore) joinProjections(violations []models.Violation) ([]ViolationRecord, error) {
	tradeIDs := make([]uint, 0, len(violations))
	userIDs := make([]uint, 0, len(violations))
	for _, v := range violations {
		tradeIDs = append(tradeIDs, v.TradeID)
		userIDs = append(userIDs, v.UserID)
	}

	trades := make(map[uint]models.Trade)
	if len(tradeIDs) > 0 {
		var rows []models.Trade
		if err := s.db.Where("id IN ?", tradeIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to load trades for violation listing: %w", err)
		}
		for _, t := range rows {
			trades[t.ID] = t
		}
	}

	users := make(map[uint]models.User)
	if len(userIDs) > 0 {
		var rows []models.User
		if err := s.db.Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to load users for violation listing: %w", err)
		}
		for _, u := range rows {
			users[u.ID] = u
		}
	}

	records := make([]ViolationRecord, 0, len(violations))
	for _, v := range violations {
		rec := ViolationRecord{Violation: v}
		if t, ok := trades[v.TradeID]; ok {
			rec.TradeDate = t.ExecutedAt
			rec.TradePair = t.Pair
			rec.TradeAction = t.Action
			rec.TradeProfitLoss = t.ProfitLoss
		}
		if u, ok := users[v.UserID]; ok {
			rec.UserEmail = u.Email
			rec.UserDisplayName = u.DisplayName
		}
		records = append(records, rec)
	}
	return records, nil
}

// Acknowledge flips a violation from pending to acknowledged. Acknowledging an
// already-acknowledged violation is a no-op returning the current state; a
// missing id is ErrNotFound. There is no way back to pending.
func (s *ViolationStore) Acknowledge(violationID uint) (*models.Violation, error) {
	var v models.Violation
	if err := s.db.First(&v, violationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("violation %d: %w", violationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load violation %d: %w", violationID, err)
	}

	if v.Acknowledged {
		return &v, nil
	}

	if err := s.db.Model(&v).Update("acknowledged", true).Error; err != nil {
		return nil, fmt.Errorf("failed to acknowledge violation %d: %w", violationID, err)
	}
	return &v, nil
}

// CountByTrade counts a trade's violations, optionally only the pending ones.
func (s *ViolationStore) CountByTrade(tradeID uint, unacknowledgedOnly bool) (int64, error) {
	q := s.db.Model(&models.Violation{}).Where("trade_id = ?", tradeID)
	if unacknowledgedOnly {
		q = q.Where("acknowledged = ?", false)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count violations for trade %d: %w", tradeID, err)
	}
	return count, nil
}
