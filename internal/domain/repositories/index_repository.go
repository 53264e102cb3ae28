package repositories

import "context"

// PackageIndexRepository abstracts the package index a scan consults for the
// latest published version of a dependency.
type PackageIndexRepository interface {
	// LatestVersion returns the newest non-yanked version of a package.
	LatestVersion(ctx context.Context, name string) (string, error)
}
