package k8s

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"
	kubeerr "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	kubernetes "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"kubeserve/internal/config"
	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

const (
	quotaName  = "tenant-resource-quota"
	policyName = "tenant-default-deny-egress"

	labelOwnerID   = "kubeserve.io/owner-id"
	labelManagedBy = "kubeserve.io/managed-by"
)

type tenantManager struct {
	client      kubernetes.Interface
	cfg         *config.KubernetesConfig
	storagePort int
}

// NewTenantManager builds a tenant manager backed by the cluster's typed API.
// storageEndpoint is the host:port of the artifact store; its port goes into
// the egress allow-list so workloads can fetch their artifacts.
func NewTenantManager(cfg *config.KubernetesConfig, storageEndpoint string) (ports.TenantManager, error) {
	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create k8s client: %w", err)
	}

	return &tenantManager{
		client:      client,
		cfg:         cfg,
		storagePort: storagePortOf(storageEndpoint),
	}, nil
}

// newWithClient is the test seam for fake clientsets.
func newWithClient(client kubernetes.Interface, cfg *config.KubernetesConfig, storageEndpoint string) *tenantManager {
	return &tenantManager{client: client, cfg: cfg, storagePort: storagePortOf(storageEndpoint)}
}

func storagePortOf(endpoint string) int {
	if _, portStr, found := strings.Cut(endpoint, ":"); found {
		if port, err := strconv.Atoi(portStr); err == nil {
			return port
		}
	}
	return 9000
}

func (m *tenantManager) EnsureNamespace(ctx context.Context, ownerID uuid.UUID) (string, error) {
	name := domain.TenantNamespace(ownerID)

	ns := &kubecore.Namespace{
		ObjectMeta: kubeapimeta.ObjectMeta{
			Name: name,
			Labels: map[string]string{
				labelOwnerID:   ownerID.String(),
				labelManagedBy: "kubeserve",
			},
		},
	}

	_, err := m.client.CoreV1().Namespaces().Create(ctx, ns, kubeapimeta.CreateOptions{})
	if err != nil && !kubeerr.IsAlreadyExists(err) {
		return "", fmt.Errorf("create namespace %s: %w", name, err)
	}
	return name, nil
}

func (m *tenantManager) EnsureResourceQuota(ctx context.Context, namespace string) error {
	quota := &kubecore.ResourceQuota{
		ObjectMeta: kubeapimeta.ObjectMeta{
			Name:      quotaName,
			Namespace: namespace,
		},
		Spec: kubecore.ResourceQuotaSpec{
			Hard: kubecore.ResourceList{
				kubecore.ResourceRequestsCPU:    resource.MustParse(m.cfg.QuotaCPU),
				kubecore.ResourceLimitsCPU:      resource.MustParse(m.cfg.QuotaCPU),
				kubecore.ResourceRequestsMemory: resource.MustParse(m.cfg.QuotaMemory),
				kubecore.ResourceLimitsMemory:   resource.MustParse(m.cfg.QuotaMemory),
				kubecore.ResourcePods:           resource.MustParse(strconv.Itoa(m.cfg.QuotaPods)),
			},
		},
	}

	_, err := m.client.CoreV1().ResourceQuotas(namespace).Create(ctx, quota, kubeapimeta.CreateOptions{})
	if err != nil && !kubeerr.IsAlreadyExists(err) {
		return fmt.Errorf("create resource quota in %s: %w", namespace, err)
	}
	return nil
}

// EnsureEgressPolicy installs a default-deny egress policy with allow rules
// for DNS, the artifact store port, and HTTPS (package installation).
func (m *tenantManager) EnsureEgressPolicy(ctx context.Context, namespace string) error {
	udp := kubecore.ProtocolUDP
	tcp := kubecore.ProtocolTCP
	dns := intstr.FromInt(53)
	store := intstr.FromInt(m.storagePort)
	https := intstr.FromInt(443)

	policy := &kubenet.NetworkPolicy{
		ObjectMeta: kubeapimeta.ObjectMeta{
			Name:      policyName,
			Namespace: namespace,
		},
		Spec: kubenet.NetworkPolicySpec{
			PodSelector: kubeapimeta.LabelSelector{},
			PolicyTypes: []kubenet.PolicyType{kubenet.PolicyTypeEgress},
			Egress: []kubenet.NetworkPolicyEgressRule{
				{
					Ports: []kubenet.NetworkPolicyPort{
						{Protocol: &udp, Port: &dns},
						{Protocol: &tcp, Port: &dns},
					},
				},
				{
					Ports: []kubenet.NetworkPolicyPort{
						{Protocol: &tcp, Port: &store},
					},
				},
				{
					Ports: []kubenet.NetworkPolicyPort{
						{Protocol: &tcp, Port: &https},
					},
				},
			},
		},
	}

	_, err := m.client.NetworkingV1().NetworkPolicies(namespace).Create(ctx, policy, kubeapimeta.CreateOptions{})
	if err != nil && !kubeerr.IsAlreadyExists(err) {
		return fmt.Errorf("create network policy in %s: %w", namespace, err)
	}
	return nil
}

// SetupTenant runs the three ensure steps in order. A failure mid-way leaves
// a partial tenant, which a later retry completes.
func (m *tenantManager) SetupTenant(ctx context.Context, ownerID uuid.UUID) (string, error) {
	namespace, err := m.EnsureNamespace(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if err := m.EnsureResourceQuota(ctx, namespace); err != nil {
		return "", err
	}
	if err := m.EnsureEgressPolicy(ctx, namespace); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{"namespace": namespace, "owner_id": ownerID}).
		Info("tenant namespace ready")
	return namespace, nil
}

func (m *tenantManager) TeardownTenant(ctx context.Context, namespace string) error {
	err := m.client.CoreV1().Namespaces().Delete(ctx, namespace, kubeapimeta.DeleteOptions{})
	if err != nil {
		if kubeerr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete namespace %s: %w", namespace, err)
	}
	return nil
}

// Ensure interface compliance
var _ ports.TenantManager = (*tenantManager)(nil)
