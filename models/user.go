package models

import "gorm.io/gorm"

// User is a reference to the campus platform's user directory. Identity
// management lives outside this service; the engine only checks that a
// requester exists before binding an allocation or request to them.
type User struct {
	gorm.Model

	FullName string `json:"fullName" gorm:"column:full_name;type:varchar(255)"`
	Email    string `json:"email" gorm:"type:varchar(255);uniqueIndex"`
}
