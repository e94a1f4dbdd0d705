package dto

import (
	"time"

	"github.com/google/uuid"

	"kubeserve/internal/core/domain"
)

type CreateModelVersionRequest struct {
	VersionTag string `json:"version_tag" binding:"required,max=100"`
}

type UpdateVersionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ModelVersionResponse struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
	ModelID      uuid.UUID `json:"model_id"`
	VersionTag   string    `json:"version_tag"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	Status       string    `json:"status"`
}

type ListModelVersionsResponse struct {
	Items []ModelVersionResponse `json:"items"`
	Total int                    `json:"total"`
}

func ToModelVersionResponse(v *domain.ModelVersion) ModelVersionResponse {
	return ModelVersionResponse{
		ID:           v.ID,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339),
		ModelID:      v.ModelID,
		VersionTag:   v.VersionTag,
		ArtifactPath: v.ArtifactPath,
		Status:       string(v.Status),
	}
}
