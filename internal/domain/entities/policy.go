package entities

import "strings"

// CandidateEligibility pairs a scanned candidate with the outcome of the
// eligibility check.
type CandidateEligibility struct {
	Candidate DependencyCandidate
	Eligible  bool
}

// ShouldUpdate decides whether a candidate deserves a version bump.
//
// Evaluated in order:
//  1. a vulnerability that upgrading would actually resolve forces an update,
//  2. no measurable version difference means nothing to do,
//  3. a holed specifier already tolerates the latest patch release,
//  4. everything else gets bumped.
func ShouldUpdate(candidate DependencyCandidate) bool {
	if candidate.CurrentVersion == "" {
		return false
	}

	difference := DifferenceBetween(candidate.CurrentVersion, candidate.LatestVersion)
	couldResolve := Unhole(candidate.CurrentVersion) != strings.TrimSpace(candidate.LatestVersion)

	switch {
	case candidate.HasVulnerabilities() && couldResolve:
		return true
	case difference == DifferenceNone:
		return false
	case IsHoled(candidate.CurrentVersion) && difference == DifferencePatch:
		return false
	default:
		return true
	}
}

// CanUpdate marks each candidate eligible or not. A candidate is ineligible
// when a ledger key already exists for its dependency name, when its unholed
// current version already equals the latest, or when the manifest path cannot
// be classified.
func CanUpdate(
	candidates []DependencyCandidate,
	existingKeys []UpdateRequestKey,
	manifestPath string,
) []CandidateEligibility {
	_, classifyErr := ManifestKindForPath(manifestPath)

	requested := make(map[string]bool, len(existingKeys))
	for _, key := range existingKeys {
		requested[key.DependencyName] = true
	}

	results := make([]CandidateEligibility, 0, len(candidates))
	for _, candidate := range candidates {
		eligible := classifyErr == nil &&
			!requested[candidate.Name] &&
			Unhole(candidate.CurrentVersion) != strings.TrimSpace(candidate.LatestVersion)
		results = append(results, CandidateEligibility{Candidate: candidate, Eligible: eligible})
	}
	return results
}
