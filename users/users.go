package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Provider identifies where a user's identity is asserted from.
type Provider string

const (
	ProviderLocal    Provider = "local"
	ProviderGoogle   Provider = "google"
	ProviderGithub   Provider = "github"
	ProviderFacebook Provider = "facebook"
)

// User is the single record shape for all four identity variants. Federated
// users carry a provider-scoped ProviderID and no password hash; local users
// carry a password hash and no ProviderID.
type User struct {
	ID           string    `json:"_id,omitempty"`        // Unique identifier for the user
	Provider     Provider  `json:"provider,omitempty"`   // Identity variant discriminant
	ProviderID   string    `json:"providerId,omitempty"` // Immutable provider-scoped external id
	Username     string    `json:"username,omitempty"`   // Unique username (local logins)
	Fullname     string    `json:"fullname,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"` // Hashed password - never serialize
	Admin        bool      `json:"admin"`
	Verify       bool      `json:"verify"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// IsFederated reports whether the user came from a social login provider.
func (u *User) IsFederated() bool {
	return u.Provider != "" && u.Provider != ProviderLocal
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
