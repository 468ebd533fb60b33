package services

import "gorm.io/gorm"

// UserDirectory is the identity boundary. User management belongs to
// the surrounding campus platform; the engine only verifies that a
// requester reference resolves to a real user.
type UserDirectory interface {
	UserExists(userID uint) (bool, error)
}

type dbUserDirectory struct {
	db *gorm.DB
}

// NewDBUserDirectory returns a UserDirectory backed by the platform's
// shared users table.
func NewDBUserDirectory(db *gorm.DB) UserDirectory {
	return &dbUserDirectory{db: db}
}

func (d *dbUserDirectory) UserExists(userID uint) (bool, error) {
	var count int64
	if err := d.db.Table("users").Where("id = ? AND deleted_at IS NULL", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
