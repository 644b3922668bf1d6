package services

import (
	"fmt"
	"testing"

	"gamestore/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a per-test in-memory database. The shared-cache DSN keyed by
// the test name keeps gorm's connection pool on one database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.GameStatus{},
		&models.Game{},
	))

	return db
}

func newGameService(t *testing.T, db *gorm.DB) (*GameService, *AssetService) {
	t.Helper()

	statuses, err := NewStatusService(db)
	require.NoError(t, err)

	assets := NewAssetService(t.TempDir())
	return NewGameService(db, nil, statuses, assets), assets
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		Username:     "user-" + email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCompany(t *testing.T, db *gorm.DB, ownerID uint, approved bool) *models.Company {
	t.Helper()

	company := models.Company{
		Title:      "Test Studio",
		OwnerID:    ownerID,
		IsApproved: approved,
	}
	require.NoError(t, db.Create(&company).Error)
	return &company
}
