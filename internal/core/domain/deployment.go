package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	MinReplicas = 1
	MaxReplicas = 10
)

// Deployment represents one running, routable instance of a model version.
// The workload name identifies the external workload and is always generated
// by the system.
type Deployment struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	VersionID    uuid.UUID `json:"version_id"`
	WorkloadName string    `json:"workload_name"`
	RouteURL     string    `json:"route_url"`
	ReplicaCount int       `json:"replica_count"`
}

// NewDeployment creates a Deployment with a fresh workload name. RouteURL
// stays empty until provisioning reports one back.
func NewDeployment(versionID uuid.UUID, replicas int) (*Deployment, error) {
	if replicas < MinReplicas || replicas > MaxReplicas {
		return nil, ErrInvalidReplicas
	}

	name, err := NewWorkloadName(versionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Deployment{
		ID:           uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
		VersionID:    versionID,
		WorkloadName: name,
		ReplicaCount: replicas,
	}, nil
}

// Kubernetes object names only allow lowercase alphanumerics and dashes.
const workloadNameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewWorkloadName builds a workload name from the version id plus a random
// suffix. The suffix keeps concurrent deploys of the same version from
// colliding; callers still verify uniqueness against the store.
func NewWorkloadName(versionID uuid.UUID) (string, error) {
	suffix, err := gonanoid.Generate(workloadNameAlphabet, 6)
	if err != nil {
		return "", fmt.Errorf("generate workload name suffix: %w", err)
	}
	return fmt.Sprintf("model-%s-%s", versionID.String()[:8], suffix), nil
}
