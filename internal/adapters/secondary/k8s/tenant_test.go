package k8s

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"kubeserve/internal/config"
	"kubeserve/internal/core/domain"
)

func testConfig() *config.KubernetesConfig {
	return &config.KubernetesConfig{
		QuotaCPU:    "2",
		QuotaMemory: "4Gi",
		QuotaPods:   5,
	}
}

func TestSetupTenant(t *testing.T) {
	client := fake.NewSimpleClientset()
	mgr := newWithClient(client, testConfig(), "minio:9000")

	ownerID := uuid.New()
	namespace, err := mgr.SetupTenant(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.Equal(t, domain.TenantNamespace(ownerID), namespace)

	ns, err := client.CoreV1().Namespaces().Get(context.Background(), namespace, kubeapimeta.GetOptions{})
	assert.NoError(t, err)
	assert.Equal(t, ownerID.String(), ns.Labels[labelOwnerID])
	assert.Equal(t, "kubeserve", ns.Labels[labelManagedBy])

	_, err = client.CoreV1().ResourceQuotas(namespace).Get(context.Background(), quotaName, kubeapimeta.GetOptions{})
	assert.NoError(t, err)

	policy, err := client.NetworkingV1().NetworkPolicies(namespace).Get(context.Background(), policyName, kubeapimeta.GetOptions{})
	assert.NoError(t, err)
	assert.Len(t, policy.Spec.Egress, 3)
	assert.Equal(t, 9000, policy.Spec.Egress[1].Ports[0].Port.IntValue())
}

func TestSetupTenant_Idempotent(t *testing.T) {
	client := fake.NewSimpleClientset()
	mgr := newWithClient(client, testConfig(), "minio:9000")

	ownerID := uuid.New()
	first, err := mgr.SetupTenant(context.Background(), ownerID)
	assert.NoError(t, err)

	// Re-running against existing objects succeeds without change.
	second, err := mgr.SetupTenant(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTeardownTenant_AbsentNamespace(t *testing.T) {
	client := fake.NewSimpleClientset()
	mgr := newWithClient(client, testConfig(), "minio:9000")

	err := mgr.TeardownTenant(context.Background(), "tenant-gone")
	assert.NoError(t, err)
}

func TestTeardownTenant(t *testing.T) {
	client := fake.NewSimpleClientset()
	mgr := newWithClient(client, testConfig(), "minio:9000")

	ownerID := uuid.New()
	namespace, err := mgr.SetupTenant(context.Background(), ownerID)
	assert.NoError(t, err)

	assert.NoError(t, mgr.TeardownTenant(context.Background(), namespace))
	_, err = client.CoreV1().Namespaces().Get(context.Background(), namespace, kubeapimeta.GetOptions{})
	assert.Error(t, err)
}

func TestStoragePortOf(t *testing.T) {
	assert.Equal(t, 9000, storagePortOf("minio:9000"))
	assert.Equal(t, 9443, storagePortOf("s3.internal:9443"))
	assert.Equal(t, 9000, storagePortOf("minio"))
	assert.Equal(t, 9000, storagePortOf("minio:abc"))
}
