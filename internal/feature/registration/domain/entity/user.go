// Package entity defines the domain entities for the registration feature.
package entity

import "time"

// Gender is the self-declared gender stored with a user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// User represents a registered user in the system.
// Users are created once through the registration flow and never updated or deleted.
type User struct {
	// ID is the unique, system-generated identifier for the user.
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Username is the public handle chosen at registration.
	// It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`

	// Name is the user's full name as entered on the form.
	Name string `gorm:"size:100;not null" json:"name"`

	// Gender is one of male, female or other.
	Gender Gender `gorm:"size:16;not null" json:"gender"`

	// PasswordHash is the bcrypt digest of the submitted password.
	// This should never store plaintext passwords.
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by the schema migration.
func (User) TableName() string {
	return "users"
}
