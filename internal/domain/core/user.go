// Package core holds the platform reference data shared by every
// company: users, languages, currencies, countries, plans, modules,
// system configuration and the audit trail.
package core

import (
	"strings"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// User is an account identified by its email address.
type User struct {
	shared.AuditedRecord
	Email                string         `gorm:"type:varchar(254);not null;uniqueIndex" json:"email" validate:"required,email,max=254"`
	PasswordHash         string         `gorm:"type:varchar(128);not null" json:"-"`
	FirstName            string         `gorm:"type:varchar(150)" json:"first_name" validate:"max=150"`
	LastName             string         `gorm:"type:varchar(150)" json:"last_name" validate:"max=150"`
	Phone                string         `gorm:"type:varchar(50)" json:"phone" validate:"max=50"`
	Locale               string         `gorm:"type:varchar(10);not null" json:"locale" validate:"max=10"`
	Timezone             string         `gorm:"type:varchar(50);not null" json:"timezone" validate:"max=50"`
	IsStaff              bool           `gorm:"not null" json:"is_staff"`
	LastLoginIP          string         `gorm:"type:varchar(45)" json:"last_login_ip,omitempty"`
	ProfileImage         datatypes.JSON `json:"profile_image"`
	SecuritySettings     datatypes.JSON `json:"security_settings"`
	NotificationSettings datatypes.JSON `json:"notification_settings"`
}

func (User) TableName() string { return "users" }

// Defaults applies the values of a new account.
func (u *User) Defaults() {
	u.InitDefaults()
	u.Locale = "fr-FR"
	u.Timezone = "Europe/Paris"
	u.ProfileImage = shared.EmptyObject()
	u.SecuritySettings = shared.EmptyObject()
	u.NotificationSettings = shared.EmptyObject()
}

// Normalize lower-cases the domain part of the email, as mailbox names
// are case sensitive but domains are not.
func (u *User) Normalize() {
	u.Email = strings.TrimSpace(u.Email)
	if at := strings.LastIndex(u.Email, "@"); at >= 0 {
		u.Email = u.Email[:at] + strings.ToLower(u.Email[at:])
	}
}

var UserRules = validation.Rules[User]{
	Fields: func(u *User, _ *validation.Env, errs *shared.ValidationError) {
		validation.Object(errs, "profile_image", u.ProfileImage)
		validation.Object(errs, "security_settings", u.SecuritySettings)
		validation.Object(errs, "notification_settings", u.NotificationSettings)
	},
	Unique: []validation.Unique[User]{{
		Field:   "email",
		Columns: []string{"email"},
		Values:  func(u *User) []any { return []any{u.Email} },
		Message: "A user with this email already exists.",
	}},
}

// SetPassword hashes and stores raw.
func (u *User) SetPassword(raw string) error {
	if len(raw) < MinPasswordLength {
		return shared.FieldError("password", "Ensure this value has at least %d characters.", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether raw matches the stored hash.
func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
