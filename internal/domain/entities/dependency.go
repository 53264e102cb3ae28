package entities

// DependencyCandidate represents a dependency found in a manifest together
// with what the package index and advisory database know about it.
type DependencyCandidate struct {
	Name            string   // Dependency name as written in the manifest
	CurrentVersion  string   // Version expression currently pinned (may be holed)
	LatestVersion   string   // Latest version published on the package index
	Vulnerabilities []string // Advisory IDs affecting the current version
}

// HasVulnerabilities reports whether any advisory affects the current version.
func (d DependencyCandidate) HasVulnerabilities() bool {
	return len(d.Vulnerabilities) > 0
}

// FileChange represents a file modification to be included in a commit.
type FileChange struct {
	Path       string
	Content    string
	ChangeType string // "add", "edit", "delete"
}
