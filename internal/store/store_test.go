package store

import (
	"fmt"
	"testing"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an isolated in-memory database for one test. The DSN is
// named after the test so every connection in gorm's pool sees the same
// database without leaking state between tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Trade{}, &models.Rule{}, &models.Violation{})
	assert.NoError(t, err)

	return db
}
