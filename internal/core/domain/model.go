package domain

import (
	"time"

	"github.com/google/uuid"
)

type ModelKind string

const (
	ModelKindSklearn ModelKind = "sklearn"
	ModelKindPytorch ModelKind = "pytorch"
)

// IsValid checks if the kind is one the serving runtime can load.
func (k ModelKind) IsValid() bool {
	return k == ModelKindSklearn || k == ModelKindPytorch
}

// Model represents a user's registered ML model. Versions hang off it and are
// removed with it.
type Model struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Kind      ModelKind `json:"kind"`
}

// NewModel creates a Model with validation.
func NewModel(ownerID uuid.UUID, name string, kind ModelKind) (*Model, error) {
	if name == "" {
		return nil, ErrInvalidModelName
	}
	if !kind.IsValid() {
		return nil, ErrInvalidModelKind
	}

	now := time.Now()
	return &Model{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
		Name:      name,
		Kind:      kind,
	}, nil
}
