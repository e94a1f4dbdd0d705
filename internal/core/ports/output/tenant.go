package ports

import (
	"context"

	"github.com/google/uuid"
)

// TenantManager guarantees a per-user execution boundary in the cluster.
// Every operation is idempotent: already-exists on create and absent on
// delete are both success, so partial setup can always be completed by a
// later retry.
type TenantManager interface {
	EnsureNamespace(ctx context.Context, ownerID uuid.UUID) (string, error)
	EnsureResourceQuota(ctx context.Context, namespace string) error
	EnsureEgressPolicy(ctx context.Context, namespace string) error

	// SetupTenant composes the three ensure calls in order.
	SetupTenant(ctx context.Context, ownerID uuid.UUID) (string, error)

	// TeardownTenant deletes the namespace and everything in it.
	TeardownTenant(ctx context.Context, namespace string) error
}
