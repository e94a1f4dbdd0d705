package domain

import (
	"time"

	"github.com/google/uuid"
)

type VersionStatus string

const (
	VersionStatusBuilding VersionStatus = "BUILDING"
	VersionStatusReady    VersionStatus = "READY"
	VersionStatusFailed   VersionStatus = "FAILED"
)

// IsValid checks if the status is a known state.
func (s VersionStatus) IsValid() bool {
	return s == VersionStatusBuilding || s == VersionStatusReady || s == VersionStatusFailed
}

// ModelVersion represents one immutable revision of a model. It starts in
// BUILDING and must reach READY, with an artifact attached, before it can be
// deployed.
type ModelVersion struct {
	ID           uuid.UUID     `json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	ModelID      uuid.UUID     `json:"model_id"`
	VersionTag   string        `json:"version_tag"`
	ArtifactPath string        `json:"artifact_path"`
	Status       VersionStatus `json:"status"`
}

// NewModelVersion creates a ModelVersion in the BUILDING state.
func NewModelVersion(modelID uuid.UUID, versionTag string) (*ModelVersion, error) {
	if versionTag == "" {
		return nil, ErrInvalidVersionTag
	}

	now := time.Now()
	return &ModelVersion{
		ID:         uuid.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
		ModelID:    modelID,
		VersionTag: versionTag,
		Status:     VersionStatusBuilding,
	}, nil
}

// transitions is the set of legal status moves. FAILED is terminal.
var transitions = map[VersionStatus][]VersionStatus{
	VersionStatusBuilding: {VersionStatusReady, VersionStatusFailed},
	VersionStatusReady:    {VersionStatusFailed},
}

// TransitionTo moves the version to the next status. BUILDING -> READY
// requires an uploaded artifact; everything outside the transition table is
// rejected.
func (v *ModelVersion) TransitionTo(next VersionStatus) error {
	if !next.IsValid() {
		return ErrInvalidTransition
	}
	if next == VersionStatusReady && v.ArtifactPath == "" {
		return ErrArtifactMissing
	}
	for _, allowed := range transitions[v.Status] {
		if next == allowed {
			v.Status = next
			v.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrInvalidTransition
}

// SetArtifactPath records the stored artifact location.
func (v *ModelVersion) SetArtifactPath(path string) {
	v.ArtifactPath = path
	v.UpdatedAt = time.Now()
}

// Deployable reports whether the version satisfies the deployment gate.
func (v *ModelVersion) Deployable() bool {
	return v.Status == VersionStatusReady && v.ArtifactPath != ""
}
