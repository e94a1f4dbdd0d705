package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
}

// NewUser creates a user record. The password hash is computed by the caller.
func NewUser(email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
	}
}

// TenantNamespace derives the isolation namespace for an owner. The mapping is
// deterministic so the deploy path never has to ask the cluster for it.
func TenantNamespace(ownerID uuid.UUID) string {
	return fmt.Sprintf("tenant-%s", ownerID.String())
}
