package dto

import (
	"time"

	"github.com/google/uuid"

	"kubeserve/internal/core/domain"
)

type CreateModelRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Kind string `json:"kind" binding:"required"`
}

type ModelResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
}

type ListModelsResponse struct {
	Items []ModelResponse `json:"items"`
	Total int             `json:"total"`
}

func ToModelResponse(m *domain.Model) ModelResponse {
	return ModelResponse{
		ID:        m.ID,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Kind:      string(m.Kind),
	}
}
