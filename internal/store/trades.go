package store

import (
	"errors"
	"fmt"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"gorm.io/gorm"
)

// TradeStore is the thin trade-journal collaborator the compliance engine
// sits behind. It owns the one rule the engine cares about: deleting a trade
// also deletes that trade's violations, and nothing else ever deletes them.
type TradeStore struct {
	db *gorm.DB
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(db *gorm.DB) *TradeStore {
	return &TradeStore{db: db}
}

// Create persists a new trade record.
func (s *TradeStore) Create(trade *models.Trade) error {
	if err := s.db.Create(trade).Error; err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	return nil
}

// Get loads a trade by id.
func (s *TradeStore) Get(tradeID uint) (*models.Trade, error) {
	var trade models.Trade
	if err := s.db.First(&trade, tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("trade %d: %w", tradeID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load trade %d: %w", tradeID, err)
	}
	return &trade, nil
}

// Delete removes a trade and cascades to its violations in one transaction.
// The cascade lives here rather than in a foreign-key constraint so it holds
// regardless of whether the sqlite connection enforces foreign keys.
func (s *TradeStore) Delete(tradeID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("trade_id = ?", tradeID).Delete(&models.Violation{}).Error; err != nil {
			return fmt.Errorf("failed to delete violations for trade %d: %w", tradeID, err)
		}
		if err := tx.Unscoped().Delete(&models.Trade{}, tradeID).Error; err != nil {
			return fmt.Errorf("failed to delete trade %d: %w", tradeID, err)
		}
		return nil
	})
	return err
}
