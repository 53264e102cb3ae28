package entities

import "strings"

const (
	unreleasedHeading = "## [Unreleased]"
	changedSubheading = "### Changed"
	h2Prefix          = "## ["
	bulletPrefix      = "- "
)

// InsertChangelogEntry inserts one bullet entry into the "## [Unreleased]" /
// "### Changed" section of a Keep-a-Changelog formatted string.
//
// Behaviour:
//   - If "## [Unreleased]" is missing, the content is returned unchanged.
//   - If "### Changed" already exists under Unreleased, the entry is appended
//     after the last bullet line in that subsection.
//   - Otherwise a new subsection is created right after "## [Unreleased]".
func InsertChangelogEntry(content, entry string) string {
	if entry == "" {
		return content
	}

	lines := strings.Split(content, "\n")

	unreleasedIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == unreleasedHeading {
			unreleasedIdx = i
			break
		}
	}
	if unreleasedIdx < 0 {
		return content // no Unreleased section
	}

	// Boundary of the Unreleased section: next ## [ heading or EOF.
	nextH2Idx := len(lines)
	for i := unreleasedIdx + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), h2Prefix) {
			nextH2Idx = i
			break
		}
	}

	changedIdx := -1
	for i := unreleasedIdx + 1; i < nextH2Idx; i++ {
		if strings.TrimSpace(lines[i]) == changedSubheading {
			changedIdx = i
			break
		}
	}

	if changedIdx >= 0 {
		insertAfter := lastBulletIndex(lines, changedIdx, nextH2Idx)
		return strings.Join(insertLines(lines, insertAfter+1, []string{entry}), "\n")
	}

	// No ### Changed subsection yet.
	block := []string{"", changedSubheading, "", entry}
	return strings.Join(insertLines(lines, unreleasedIdx+1, block), "\n")
}

// lastBulletIndex returns the index of the last bullet line in the
// ### Changed subsection, starting from changedIdx.
func lastBulletIndex(lines []string, changedIdx, endIdx int) int {
	insertAfter := changedIdx
	for i := changedIdx + 1; i < endIdx; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue // skip blank lines between bullets
		}
		if !strings.HasPrefix(trimmed, bulletPrefix) {
			break // hit another subsection heading or prose
		}
		insertAfter = i
	}
	return insertAfter
}

// insertLines inserts extra lines into slice at the given index.
func insertLines(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	result = append(result, lines[at:]...)
	return result
}
