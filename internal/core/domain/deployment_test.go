package domain

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewDeployment(t *testing.T) {
	versionID := uuid.New()

	deployment, err := NewDeployment(versionID, 3)
	assert.NoError(t, err)
	assert.Equal(t, versionID, deployment.VersionID)
	assert.Equal(t, 3, deployment.ReplicaCount)
	assert.Empty(t, deployment.RouteURL)
}

func TestNewDeployment_ReplicaRange(t *testing.T) {
	versionID := uuid.New()

	for _, replicas := range []int{0, -1, 11} {
		_, err := NewDeployment(versionID, replicas)
		assert.ErrorIs(t, err, ErrInvalidReplicas, "replicas %d", replicas)
	}
	for _, replicas := range []int{MinReplicas, MaxReplicas} {
		_, err := NewDeployment(versionID, replicas)
		assert.NoError(t, err, "replicas %d", replicas)
	}
}

func TestNewWorkloadName(t *testing.T) {
	versionID := uuid.New()

	name, err := NewWorkloadName(versionID)
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^model-[0-9a-f]{8}-[a-z0-9]{6}$`), name)

	// Same version, distinct suffixes.
	other, err := NewWorkloadName(versionID)
	assert.NoError(t, err)
	assert.NotEqual(t, name, other)
}
