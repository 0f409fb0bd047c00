package models

import "gorm.io/gorm"

// User is the minimal account projection the engine needs: a display join
// for violation listings and the admin flag gating the unrestricted listing.
type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `gorm:"not null;default:false" json:"is_admin"`
}
