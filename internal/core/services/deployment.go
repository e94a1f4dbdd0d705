package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

const workloadNameAttempts = 3

// DeploymentService orchestrates deployments across the relational store and
// the cluster. The record is written first, the workload applied second, and a
// failed apply rolls the record back so the two views stay convergent.
type DeploymentService struct {
	deploymentRepo ports.DeploymentRepository
	versionRepo    ports.ModelVersionRepository
	modelRepo      ports.ModelRepository
	provisioner    ports.WorkloadProvisioner
}

func NewDeploymentService(
	deploymentRepo ports.DeploymentRepository,
	versionRepo ports.ModelVersionRepository,
	modelRepo ports.ModelRepository,
	provisioner ports.WorkloadProvisioner,
) *DeploymentService {
	return &DeploymentService{
		deploymentRepo: deploymentRepo,
		versionRepo:    versionRepo,
		modelRepo:      modelRepo,
		provisioner:    provisioner,
	}
}

// Create deploys a ready version into the owner's tenant namespace.
func (s *DeploymentService) Create(ctx context.Context, ownerID, versionID uuid.UUID, replicas int) (*domain.Deployment, error) {
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

	if version.Status != domain.VersionStatusReady {
		return nil, domain.ErrVersionNotReady
	}
	if version.ArtifactPath == "" {
		return nil, domain.ErrArtifactMissing
	}
	artifact, err := domain.ParseArtifactPath(version.ArtifactPath)
	if err != nil {
		return nil, err
	}

	deployment, err := domain.NewDeployment(versionID, replicas)
	if err != nil {
		return nil, err
	}
	if err := s.reserveWorkloadName(ctx, deployment); err != nil {
		return nil, err
	}

	if err := s.deploymentRepo.Create(ctx, deployment); err != nil {
		return nil, err
	}

	namespace := domain.TenantNamespace(ownerID)
	routeURL, err := s.provisioner.Apply(ctx, ports.ApplyParams{
		WorkloadName: deployment.WorkloadName,
		Namespace:    namespace,
		Artifact:     artifact,
		Replicas:     deployment.ReplicaCount,
		RouteEnabled: true,
		RouteSuffix:  deployment.ID.String(),
	})
	if err != nil {
		// Roll the record back so no row points at a workload that never
		// came up.
		if delErr := s.deploymentRepo.Delete(ctx, deployment.ID); delErr != nil {
			log.WithError(delErr).WithFields(log.Fields{
				"deployment_id": deployment.ID,
				"workload":      deployment.WorkloadName,
			}).Error("rollback of failed deployment record failed")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProvisioningFailed, err)
	}

	if routeURL != "" {
		deployment.RouteURL = routeURL
		if err := s.deploymentRepo.SetRouteURL(ctx, deployment.ID, routeURL); err != nil {
			log.WithError(err).WithField("deployment_id", deployment.ID).
				Warn("route url write-back failed, workload is up")
		}
	}
	return deployment, nil
}

// reserveWorkloadName regenerates the random suffix until the name is unused.
// The unique index still backs this up under races.
func (s *DeploymentService) reserveWorkloadName(ctx context.Context, deployment *domain.Deployment) error {
	for attempt := 0; attempt < workloadNameAttempts; attempt++ {
		_, err := s.deploymentRepo.GetByWorkloadName(ctx, deployment.WorkloadName)
		if errors.Is(err, domain.ErrDeploymentNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("check workload name: %w", err)
		}

		name, err := domain.NewWorkloadName(deployment.VersionID)
		if err != nil {
			return err
		}
		deployment.WorkloadName = name
	}
	return domain.ErrWorkloadNameConflict
}

// Get resolves a deployment and walks the ownership chain back to the caller.
func (s *DeploymentService) Get(ctx context.Context, ownerID, deploymentID uuid.UUID) (*domain.Deployment, error) {
	deployment, err := s.deploymentRepo.GetByID(ctx, deploymentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, ownerID, deployment.VersionID); err != nil {
		return nil, err
	}
	return deployment, nil
}

func (s *DeploymentService) ListByVersion(ctx context.Context, ownerID, versionID uuid.UUID) ([]*domain.Deployment, error) {
	if err := s.authorize(ctx, ownerID, versionID); err != nil {
		return nil, err
	}
	return s.deploymentRepo.ListByVersion(ctx, versionID)
}

// Delete tears the workload down and then removes the record. A failed
// teardown is logged and swallowed, the record goes away either way, and the
// orphaned workload is reconciliation debt for the operator.
func (s *DeploymentService) Delete(ctx context.Context, ownerID, deploymentID uuid.UUID) error {
	deployment, err := s.Get(ctx, ownerID, deploymentID)
	if err != nil {
		return err
	}

	namespace := domain.TenantNamespace(ownerID)
	if err := s.provisioner.Remove(ctx, deployment.WorkloadName, namespace); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"deployment_id": deployment.ID,
			"workload":      deployment.WorkloadName,
			"namespace":     namespace,
		}).Warn("workload teardown failed, instance left for reconciliation")
	}

	return s.deploymentRepo.Delete(ctx, deployment.ID)
}

// Status reports the live workload condition alongside the stored record.
func (s *DeploymentService) Status(ctx context.Context, ownerID, deploymentID uuid.UUID) (*domain.Deployment, *ports.WorkloadStatus, error) {
	deployment, err := s.Get(ctx, ownerID, deploymentID)
	if err != nil {
		return nil, nil, err
	}

	status, err := s.provisioner.Status(ctx, deployment.WorkloadName, domain.TenantNamespace(ownerID))
	if err != nil {
		return nil, nil, fmt.Errorf("workload status: %w", err)
	}
	return deployment, status, nil
}

func (s *DeploymentService) authorize(ctx context.Context, ownerID, versionID uuid.UUID) error {
	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return err
	}
	if _, err := s.modelRepo.GetByID(ctx, version.ModelID, ownerID); err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			return domain.ErrAccessDenied
		}
		return err
	}
	return nil
}
