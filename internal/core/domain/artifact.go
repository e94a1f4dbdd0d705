package domain

import "strings"

const artifactScheme = "s3://"

// ArtifactRef is the parsed form of a stored artifact path.
type ArtifactRef struct {
	Bucket string
	Key    string
}

// ParseArtifactPath splits an s3://bucket/key path into bucket and key.
// A path without a key ("s3://bucket") refers to the bucket root and yields
// an empty key, not an error.
func ParseArtifactPath(path string) (ArtifactRef, error) {
	rest, ok := strings.CutPrefix(path, artifactScheme)
	if !ok || rest == "" {
		return ArtifactRef{}, ErrInvalidArtifactPath
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return ArtifactRef{}, ErrInvalidArtifactPath
	}
	return ArtifactRef{Bucket: bucket, Key: key}, nil
}

// String renders the reference back into path form.
func (r ArtifactRef) String() string {
	if r.Key == "" {
		return artifactScheme + r.Bucket
	}
	return artifactScheme + r.Bucket + "/" + r.Key
}
