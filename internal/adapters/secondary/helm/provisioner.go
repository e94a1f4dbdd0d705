package helm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"kubeserve/internal/config"
	"kubeserve/internal/core/ports/output"
)

// runnerFunc executes a command and returns its stdout and stderr. Tests
// substitute a fake.
type runnerFunc func(ctx context.Context, name string, args ...string) (string, string, error)

type provisioner struct {
	cfg     *config.HelmConfig
	store   config.StorageConfig
	ingress config.IngressConfig
	run     runnerFunc
}

// NewProvisioner builds a provisioner that shells out to helm. Store
// credentials and route settings are fixed at construction; per-workload
// inputs come through ApplyParams.
func NewProvisioner(cfg *config.HelmConfig, store config.StorageConfig, ingress config.IngressConfig) ports.WorkloadProvisioner {
	return &provisioner{
		cfg:     cfg,
		store:   store,
		ingress: ingress,
		run:     runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (p *provisioner) timeout() time.Duration {
	if p.cfg.Timeout > 0 {
		return p.cfg.Timeout
	}
	return 300 * time.Second
}

// RouteURL builds the public endpoint for a route suffix. It depends only on
// configuration and the suffix, so persisted deployments can re-derive it.
func (p *provisioner) RouteURL(suffix string) string {
	return fmt.Sprintf("http://%s:%d%s/%s",
		p.ingress.Host, p.ingress.NodePort, p.ingress.BasePath, suffix)
}

func (p *provisioner) Apply(ctx context.Context, params ports.ApplyParams) (string, error) {
	if _, err := os.Stat(p.cfg.ChartPath); err != nil {
		return "", fmt.Errorf("helm chart not found at %s: %w", p.cfg.ChartPath, err)
	}

	imageRepo := params.ImageRepository
	if imageRepo == "" {
		imageRepo = p.cfg.ImageRepository
	}
	imageTag := params.ImageTag
	if imageTag == "" {
		imageTag = p.cfg.ImageTag
	}

	routeEnabled := params.RouteEnabled && p.ingress.Enabled
	routePath := p.ingress.BasePath + "/" + params.RouteSuffix

	args := []string{
		"install", params.WorkloadName, p.cfg.ChartPath,
		"--namespace", params.Namespace,
		"--set", "model.s3Bucket=" + params.Artifact.Bucket,
		"--set", "model.s3Path=" + params.Artifact.Key,
		"--set", "model.s3Endpoint=" + p.store.Endpoint,
		"--set", "model.s3AccessKey=" + p.store.AccessKey,
		"--set", "model.s3SecretKey=" + p.store.SecretKey,
		"--set", "model.s3UseSSL=" + strconv.FormatBool(p.store.UseSSL),
		"--set", "deployment.replicas=" + strconv.Itoa(params.Replicas),
		"--set", "deployment.image.repository=" + imageRepo,
		"--set", "deployment.image.tag=" + imageTag,
		"--set", "ingress.enabled=" + strconv.FormatBool(routeEnabled),
		"--set", "ingress.hosts[0].host=" + p.ingress.Host,
		"--set", "ingress.hosts[0].paths[0].path=" + routePath,
		"--set", "ingress.hosts[0].paths[0].pathType=Prefix",
		"--set", "monitoring.serviceMonitor.enabled=true",
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	log.WithFields(log.Fields{
		"workload":  params.WorkloadName,
		"namespace": params.Namespace,
	}).Info("applying workload chart")

	stdout, stderr, err := p.run(ctx, "helm", args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("helm install timed out after %s", p.timeout())
		}
		return "", fmt.Errorf("helm install failed: %s", firstNonEmpty(stderr, err.Error()))
	}

	log.WithField("workload", params.WorkloadName).Debugf("helm output: %s", stdout)

	if !routeEnabled {
		return "", nil
	}
	return p.RouteURL(params.RouteSuffix), nil
}

func (p *provisioner) Remove(ctx context.Context, workloadName, namespace string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	_, stderr, err := p.run(ctx, "helm",
		"uninstall", workloadName, "--namespace", namespace)
	if err != nil {
		// Absent release means teardown already happened.
		if strings.Contains(strings.ToLower(stderr), "not found") {
			log.WithField("workload", workloadName).Info("release not found, skipping uninstall")
			return nil
		}
		return fmt.Errorf("helm uninstall failed: %s", firstNonEmpty(stderr, err.Error()))
	}
	return nil
}

func (p *provisioner) Status(ctx context.Context, workloadName, namespace string) (*ports.WorkloadStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	stdout, stderr, err := p.run(ctx, "helm",
		"status", workloadName, "--namespace", namespace, "--output", "json")
	if err != nil {
		return &ports.WorkloadStatus{
			State:  ports.WorkloadStateNotFound,
			Detail: stderr,
		}, nil
	}

	return &ports.WorkloadStatus{
		State:  ports.WorkloadStateDeployed,
		Detail: stdout,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Ensure interface compliance
var _ ports.WorkloadProvisioner = (*provisioner)(nil)
