package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	NameMinLen     = 3
	NameMaxLen     = 50
	PasswordMinLen = 8
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents a user account in the system.
//
// PasswordHash and RefreshToken never leave the process: every read path
// goes through Public(). TokenVersion increments on password change and on
// sign-out, which invalidates all outstanding refresh tokens.
type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`

	RefreshToken string `json:"-"`
	TokenVersion int    `gorm:"not null;default:0" json:"-"`

	Bio            string
	Location       string
	ProfilePicture string

	YoutubeLinks []YoutubeLink `gorm:"constraint:OnDelete:CASCADE"`
}

// PublicUser is the only user shape that crosses the HTTP boundary.
type PublicUser struct {
	ID             uint          `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Bio            string        `json:"bio"`
	Location       string        `json:"location"`
	ProfilePicture string        `json:"profilePicture"`
	CreatedAt      time.Time     `json:"createdAt"`
	YoutubeLinks   []YoutubeLink `json:"youtubeLinks,omitempty"`
}

// Public strips credentials and token state from the record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Bio:            u.Bio,
		Location:       u.Location,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		YoutubeLinks:   u.YoutubeLinks,
	}
}

// HashPassword hashes a plaintext password with bcrypt. It is called
// explicitly before persistence; there are no ORM hooks.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateName(name string) error {
	n := len(strings.TrimSpace(name))
	if n < NameMinLen || n > NameMaxLen {
		return fmt.Errorf("name must be between %d and %d characters", NameMinLen, NameMaxLen)
	}
	return nil
}

// ValidateEmail checks the address shape only; uniqueness is the store's
// concern.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen {
		return fmt.Errorf("password must be at least %d characters", PasswordMinLen)
	}
	return nil
}

// ValidateSignup runs every registration check before any mutation.
func ValidateSignup(name, email, password string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}
