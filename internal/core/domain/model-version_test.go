package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewModelVersion(t *testing.T) {
	version, err := NewModelVersion(uuid.New(), "v1")
	assert.NoError(t, err)
	assert.Equal(t, VersionStatusBuilding, version.Status)
	assert.Empty(t, version.ArtifactPath)

	_, err = NewModelVersion(uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidVersionTag)
}

func TestModelVersionTransitions(t *testing.T) {
	version, _ := NewModelVersion(uuid.New(), "v1")

	// READY needs an artifact first.
	err := version.TransitionTo(VersionStatusReady)
	assert.ErrorIs(t, err, ErrArtifactMissing)

	version.SetArtifactPath("s3://models/key")
	assert.NoError(t, version.TransitionTo(VersionStatusReady))
	assert.True(t, version.Deployable())

	// READY can only fail.
	assert.ErrorIs(t, version.TransitionTo(VersionStatusBuilding), ErrInvalidTransition)
	assert.NoError(t, version.TransitionTo(VersionStatusFailed))

	// FAILED is terminal.
	assert.ErrorIs(t, version.TransitionTo(VersionStatusBuilding), ErrInvalidTransition)
	assert.ErrorIs(t, version.TransitionTo(VersionStatusFailed), ErrInvalidTransition)
	assert.False(t, version.Deployable())
}

func TestModelVersionTransition_UnknownStatus(t *testing.T) {
	version, _ := NewModelVersion(uuid.New(), "v1")
	assert.ErrorIs(t, version.TransitionTo(VersionStatus("ARCHIVED")), ErrInvalidTransition)
}

func TestModelVersionBuildingCanFail(t *testing.T) {
	version, _ := NewModelVersion(uuid.New(), "v1")
	assert.NoError(t, version.TransitionTo(VersionStatusFailed))
}
