package entities

import (
	"fmt"
	"path"
	"strings"
)

// ManifestKind classifies a manifest file by the mutation strategy it needs.
type ManifestKind int

const (
	// ManifestLineList is a flat list of pinned requirements, one per line
	// (pip requirements.txt).
	ManifestLineList ManifestKind = iota

	// ManifestLockPair is a structured descriptor paired with a lock file
	// that must be kept consistent (pyproject.toml + poetry.lock).
	ManifestLockPair
)

const lockFileName = "poetry.lock"

// ManifestKindForPath maps a manifest path to its kind. Paths with an
// unsupported extension are rejected with ErrUnrecognizedManifest.
func ManifestKindForPath(filePath string) (ManifestKind, error) {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".txt":
		return ManifestLineList, nil
	case ".toml":
		return ManifestLockPair, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedManifest, filePath)
	}
}

// LockPathFor returns the lock file path that accompanies the given
// descriptor, in the same directory.
func LockPathFor(descriptorPath string) string {
	dir := path.Dir(descriptorPath)
	if dir == "." {
		return lockFileName
	}
	return dir + "/" + lockFileName
}

// MutationInput carries everything a manifest mutator needs to rewrite the
// pinned version of one dependency.
type MutationInput struct {
	Path        string // Manifest path (for the resulting FileChange)
	Content     string // Current manifest content
	LockPath    string // Lock file path (lock-pair manifests only)
	LockContent string // Current lock file content (lock-pair manifests only)

	DependencyName string
	FromVersion    string
	ToVersion      string
	Integrity      string // New lock integrity value, empty to keep the old one
}

// MutateManifest rewrites the dependency pin according to the manifest kind
// and returns the resulting file edits: one for a line list, two (descriptor
// and lock) for a lock pair. On error no edits are returned.
func MutateManifest(kind ManifestKind, in MutationInput) ([]FileChange, error) {
	switch kind {
	case ManifestLineList:
		updated, err := UpdateRequirements(in.Content, in.DependencyName, in.FromVersion, in.ToVersion)
		if err != nil {
			return nil, err
		}
		return []FileChange{
			{Path: in.Path, Content: updated, ChangeType: "edit"},
		}, nil

	case ManifestLockPair:
		descriptor, lock, err := UpdateLockPair(
			in.Content, in.LockContent,
			in.DependencyName, in.FromVersion, in.ToVersion, in.Integrity,
		)
		if err != nil {
			return nil, err
		}
		return []FileChange{
			{Path: in.Path, Content: descriptor, ChangeType: "edit"},
			{Path: in.LockPath, Content: lock, ChangeType: "edit"},
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrUnrecognizedManifest, kind)
	}
}
