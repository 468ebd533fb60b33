package services

import (
	"testing"
	"time"

	"hostel-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database. The connection
// pool is capped at one so concurrent transactions in race tests
// serialize the same way MySQL serializes conflicting row updates.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Allocation{},
		&models.ServiceRequest{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	user := models.User{FullName: name, Email: name + "@campus.test"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func createTestRoom(t *testing.T, svc *RoomService, number string, capacity int) *models.Room {
	t.Helper()
	room, err := svc.Create(models.Room{
		RoomNumber: number,
		Block:      "A",
		Floor:      1,
		Type:       "standard",
		Capacity:   capacity,
	})
	require.NoError(t, err)
	return room
}

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
