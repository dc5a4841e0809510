package accounts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the stored account record. The password hash never leaves the
// store layer: external responses are built from the PublicAccount
// projection, which has no hash field to forget to strip.
type Account struct {
	bun.BaseModel   `bun:"table:accounts,alias:acc"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name            string     `bun:"name,notnull" json:"name,omitempty"`
	Email           string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash    string     `bun:"password_hash,notnull" json:"-"`
	Activated       bool       `bun:"is_activated,notnull,default:false" json:"is_activated"`
	ProfileImageURL string     `bun:"profile_image_url" json:"profile_image_url,omitempty"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PublicAccount is the externally safe projection of an Account.
type PublicAccount struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Activated       bool       `json:"is_activated"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// Public returns the projection safe for API responses.
func (a *Account) Public() *PublicAccount {
	if a == nil {
		return nil
	}
	return &PublicAccount{
		ID:              a.ID,
		Name:            a.Name,
		Email:           a.Email,
		Activated:       a.Activated,
		ProfileImageURL: a.ProfileImageURL,
		CreatedAt:       a.CreatedAt,
	}
}

// NormalizeEmail lowercases and trims an email address. Identity is keyed on
// the normalized form; the raw input is never stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
