package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

type ModelVersionService struct {
	versionRepo ports.ModelVersionRepository
	modelRepo   ports.ModelRepository
}

func NewModelVersionService(versionRepo ports.ModelVersionRepository, modelRepo ports.ModelRepository) *ModelVersionService {
	return &ModelVersionService{versionRepo: versionRepo, modelRepo: modelRepo}
}

// Create adds a version under a model the caller owns. The tag must be unique
// within the model; the check runs before creation and the unique index backs
// it up under races.
func (s *ModelVersionService) Create(ctx context.Context, ownerID, modelID uuid.UUID, versionTag string) (*domain.ModelVersion, error) {
	if _, err := s.modelRepo.GetByID(ctx, modelID, ownerID); err != nil {
		return nil, err
	}

	if _, err := s.versionRepo.GetByModelAndTag(ctx, modelID, versionTag); err == nil {
		return nil, domain.ErrVersionTagConflict
	} else if !errors.Is(err, domain.ErrVersionNotFound) {
		return nil, fmt.Errorf("check version tag: %w", err)
	}

	version, err := domain.NewModelVersion(modelID, versionTag)
	if err != nil {
		return nil, err
	}
	if err := s.versionRepo.Create(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}

// Get resolves a version and walks the ownership chain. A version whose model
// belongs to someone else is reported as denied, since its existence is
// already confirmed.
func (s *ModelVersionService) Get(ctx context.Context, ownerID, versionID uuid.UUID) (*domain.ModelVersion, error) {
	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.modelRepo.GetByID(ctx, version.ModelID, ownerID); err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, err
	}
	return version, nil
}

func (s *ModelVersionService) ListByModel(ctx context.Context, ownerID, modelID uuid.UUID) ([]*domain.ModelVersion, error) {
	if _, err := s.modelRepo.GetByID(ctx, modelID, ownerID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByModel(ctx, modelID)
}

// UpdateStatus moves a version through the lifecycle state machine. Illegal
// transitions are rejected before anything is written.
func (s *ModelVersionService) UpdateStatus(ctx context.Context, ownerID, versionID uuid.UUID, next domain.VersionStatus) (*domain.ModelVersion, error) {
	version, err := s.Get(ctx, ownerID, versionID)
	if err != nil {
		return nil, err
	}
	if err := version.TransitionTo(next); err != nil {
		return nil, err
	}
	if err := s.versionRepo.Update(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}
