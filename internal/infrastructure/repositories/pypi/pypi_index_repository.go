package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

const (
	defaultBaseURL = "https://pypi.org"
	requestTimeout = 15 * time.Second
)

// PyPIIndexRepository implements repositories.PackageIndexRepository against
// the PyPI JSON API.
type PyPIIndexRepository struct {
	baseURL string
	client  *http.Client
}

// NewPackageIndexRepository creates an index client for pypi.org.
func NewPackageIndexRepository() repositories.PackageIndexRepository {
	return NewPackageIndexRepositoryWithBaseURL(defaultBaseURL)
}

// NewPackageIndexRepositoryWithBaseURL creates an index client against a
// custom index (private mirror, test server).
func NewPackageIndexRepositoryWithBaseURL(baseURL string) repositories.PackageIndexRepository {
	return &PyPIIndexRepository{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type packageDocument struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	Releases map[string][]releaseFile `json:"releases"`
}

type releaseFile struct {
	Yanked bool `json:"yanked"`
}

// LatestVersion returns the newest non-yanked release of a package,
// falling back to the index's advertised version when the release map is
// unusable.
func (r *PyPIIndexRepository) LatestVersion(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", r.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query index for %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code for %q: %d", name, resp.StatusCode)
	}

	var doc packageDocument
	if decodeErr := json.NewDecoder(resp.Body).Decode(&doc); decodeErr != nil {
		return "", fmt.Errorf("failed to parse index response for %q: %w", name, decodeErr)
	}

	if latest := latestRelease(doc.Releases); latest != "" {
		return latest, nil
	}
	if doc.Info.Version != "" {
		return doc.Info.Version, nil
	}
	return "", fmt.Errorf("no usable release found for %q", name)
}

// latestRelease picks the highest version whose files are not all yanked.
func latestRelease(releases map[string][]releaseFile) string {
	versions := make([]string, 0, len(releases))
	for version, files := range releases {
		if allYanked(files) {
			continue
		}
		versions = append(versions, version)
	}
	if len(versions) == 0 {
		return ""
	}

	sortVersionsDescending(versions)
	return versions[0]
}

func allYanked(files []releaseFile) bool {
	if len(files) == 0 {
		return true
	}
	for _, file := range files {
		if !file.Yanked {
			return false
		}
	}
	return true
}

// --- version sorting ---

func sortVersionsDescending(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		v1 := normalizeVersion(versions[i])
		v2 := normalizeVersion(versions[j])
		if semver.IsValid(v1) && semver.IsValid(v2) {
			return semver.Compare(v1, v2) > 0
		}
		return versions[i] > versions[j]
	})
}

func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
