package osv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

const (
	defaultBaseURL = "https://api.osv.dev"
	ecosystem      = "PyPI"
	requestTimeout = 15 * time.Second
)

// OSVAdvisoryRepository implements repositories.AdvisoryRepository against
// the OSV.dev query API.
type OSVAdvisoryRepository struct {
	baseURL string
	client  *http.Client
}

// NewAdvisoryRepository creates an advisory client for osv.dev.
func NewAdvisoryRepository() repositories.AdvisoryRepository {
	return NewAdvisoryRepositoryWithBaseURL(defaultBaseURL)
}

// NewAdvisoryRepositoryWithBaseURL creates an advisory client against a
// custom endpoint (test server).
func NewAdvisoryRepositoryWithBaseURL(baseURL string) repositories.AdvisoryRepository {
	return &OSVAdvisoryRepository{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type queryRequest struct {
	Version string       `json:"version"`
	Package queryPackage `json:"package"`
}

type queryPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type queryResponse struct {
	Vulns []vulnerability `json:"vulns"`
}

type vulnerability struct {
	ID string `json:"id"`
}

// Vulnerabilities returns the advisory IDs affecting the given version of a
// package. An empty version cannot be matched against ranges and yields no
// advisories.
func (r *OSVAdvisoryRepository) Vulnerabilities(
	ctx context.Context,
	name, version string,
) ([]string, error) {
	if version == "" {
		return nil, nil
	}

	payload, err := json.Marshal(queryRequest{
		Version: version,
		Package: queryPackage{Name: name, Ecosystem: ecosystem},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, r.baseURL+"/v1/query", bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query advisories for %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code for %q: %d", name, resp.StatusCode)
	}

	var result queryResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return nil, fmt.Errorf("failed to parse advisory response for %q: %w", name, decodeErr)
	}

	ids := make([]string, 0, len(result.Vulns))
	for _, vuln := range result.Vulns {
		ids = append(ids, vuln.ID)
	}
	return ids, nil
}
