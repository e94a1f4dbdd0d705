package domain

import "errors"

// ============================================================================
// Not Found Errors
// ============================================================================

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrModelNotFound      = errors.New("model not found")
	ErrVersionNotFound    = errors.New("model version not found")
	ErrDeploymentNotFound = errors.New("deployment not found")
)

// ============================================================================
// Access Errors
// ============================================================================

var (
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// ============================================================================
// Conflict Errors
// ============================================================================

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrVersionTagConflict   = errors.New("version tag already exists for this model")
	ErrWorkloadNameConflict = errors.New("workload name already in use")
)

// ============================================================================
// Validation / Precondition Errors
// ============================================================================

var (
	ErrInvalidModelName    = errors.New("model name is required")
	ErrInvalidModelKind    = errors.New("model kind must be sklearn or pytorch")
	ErrInvalidVersionTag   = errors.New("version tag is required")
	ErrInvalidTransition   = errors.New("invalid version status transition")
	ErrVersionNotReady     = errors.New("model version must be READY before deployment")
	ErrArtifactMissing     = errors.New("model version has no uploaded artifact")
	ErrInvalidReplicas     = errors.New("replica count must be between 1 and 10")
	ErrInvalidArtifactPath = errors.New("artifact path is not a valid s3:// reference")
	ErrFileTooLarge        = errors.New("uploaded file exceeds the size limit")
	ErrFileExtension       = errors.New("uploaded file has a disallowed extension")
)

// ============================================================================
// External / Infrastructure Errors
// ============================================================================

var (
	ErrProvisioningFailed = errors.New("workload provisioning failed")
	ErrStorageUnavailable = errors.New("artifact storage is not available")
)
