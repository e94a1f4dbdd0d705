package dto

import (
	"time"

	"github.com/google/uuid"

	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

type CreateDeploymentRequest struct {
	VersionID uuid.UUID `json:"version_id" binding:"required"`
	Replicas  int       `json:"replicas" binding:"required"`
}

type DeploymentResponse struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
	VersionID    uuid.UUID `json:"version_id"`
	WorkloadName string    `json:"workload_name"`
	RouteURL     string    `json:"route_url,omitempty"`
	ReplicaCount int       `json:"replica_count"`
}

type ListDeploymentsResponse struct {
	Items []DeploymentResponse `json:"items"`
	Total int                  `json:"total"`
}

type DeploymentStatusResponse struct {
	Deployment DeploymentResponse `json:"deployment"`
	State      string             `json:"state"`
	Detail     string             `json:"detail,omitempty"`
}

func ToDeploymentResponse(d *domain.Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:           d.ID,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    d.UpdatedAt.Format(time.RFC3339),
		VersionID:    d.VersionID,
		WorkloadName: d.WorkloadName,
		RouteURL:     d.RouteURL,
		ReplicaCount: d.ReplicaCount,
	}
}

func ToDeploymentStatusResponse(d *domain.Deployment, s *ports.WorkloadStatus) DeploymentStatusResponse {
	return DeploymentStatusResponse{
		Deployment: ToDeploymentResponse(d),
		State:      string(s.State),
		Detail:     s.Detail,
	}
}
