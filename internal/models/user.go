package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents an account on the site.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null;check:username <> ''"`
	// Email is only rendered to the account owner.
	Email          string    `json:"-" gorm:"uniqueIndex;not null;check:email <> ''"`
	Password       string    `json:"-" gorm:"not null"` // bcrypt hash
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserStats holds the counters shown on a profile.
type UserStats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}

// Signup builds a new, unsaved user with a hashed password.
// Callers are expected to persist the result; uniqueness is enforced by the store.
func Signup(username, email, password, imageURL string) (*User, error) {
	ve := &ValidationError{Fields: map[string]string{}}
	if strings.TrimSpace(username) == "" {
		ve.Fields["Username"] = "username is required"
	}
	if strings.TrimSpace(email) == "" {
		ve.Fields["Email"] = "email is required"
	}
	if password == "" {
		ve.Fields["Password"] = "password must be non-empty"
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if imageURL == "" {
		imageURL = DefaultImageURL
	}
	return &User{
		Username:       username,
		Email:          email,
		Password:       string(hashed),
		ImageURL:       imageURL,
		HeaderImageURL: DefaultHeaderImageURL,
	}, nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if u == nil || u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
