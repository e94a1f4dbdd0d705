package ports

import (
	"context"

	"kubeserve/internal/core/domain"
)

// WorkloadState is the coarse condition of an external workload instance.
type WorkloadState string

const (
	WorkloadStateDeployed WorkloadState = "deployed"
	WorkloadStateNotFound WorkloadState = "not_found"
	WorkloadStateUnknown  WorkloadState = "unknown"
)

// WorkloadStatus is best-effort introspection output. Detail carries the raw
// tool output for operators.
type WorkloadStatus struct {
	State  WorkloadState
	Detail string
}

// ApplyParams is the fixed parameter set handed to the workload template.
// Store coordinates, credentials and the runtime image default come from the
// provisioner's own configuration; empty image fields select those defaults.
type ApplyParams struct {
	WorkloadName    string
	Namespace       string
	Artifact        domain.ArtifactRef
	Replicas        int
	ImageRepository string
	ImageTag        string
	RouteEnabled    bool
	RouteSuffix     string
}

// WorkloadProvisioner applies and removes one workload instance per model
// version. Implementations do not retry; retry policy belongs to callers.
type WorkloadProvisioner interface {
	// Apply renders the template and creates the workload. The returned route
	// URL is empty when the route is disabled.
	Apply(ctx context.Context, params ApplyParams) (string, error)

	// Remove tears the workload down. An absent instance is success.
	Remove(ctx context.Context, workloadName, namespace string) error

	// Status reports the workload condition. An absent instance yields
	// WorkloadStateNotFound, not an error.
	Status(ctx context.Context, workloadName, namespace string) (*WorkloadStatus, error)
}
