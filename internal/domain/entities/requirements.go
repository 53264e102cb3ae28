package entities

import (
	"fmt"
	"strings"
)

// vcsPrefixes mark requirement lines sourced from a version-control system.
// Those lines carry no pinned version and never match a dependency name.
var vcsPrefixes = []string{"git+", "hg+", "svn+", "bzr+"}

// RequirementPin is one parsed line of a requirements file.
type RequirementPin struct {
	Name      string // Dependency name, exact case as written
	Specifier string // Version expression after the operator (may be holed)
}

// requirementLine is the parsed form of a single line, keeping offsets so
// the version token can be spliced in place.
type requirementLine struct {
	name         string
	specifier    string // Operator plus version, as written ("==1.0.0", ">=2.0")
	version      string // Version token alone
	versionStart int    // Byte offset of the version token within the line
}

// UpdateRequirements rewrites the pinned version of one dependency in a
// requirements file. The first line whose leading token equals name (exact,
// case-sensitive) is updated; the comparison operator, whitespace, trailing
// markers, and every other line are preserved byte for byte.
//
// Returns ErrDependencyNotFound when no line names the dependency, and
// ErrVersionMismatch when the recorded version differs from fromVersion.
func UpdateRequirements(content, name, fromVersion, toVersion string) (string, error) {
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		parsed, ok := parseRequirementLine(line)
		if !ok || parsed.name != name {
			continue
		}

		if parsed.version != fromVersion {
			return "", fmt.Errorf(
				"%w: %q is pinned to %q, expected %q",
				ErrVersionMismatch, name, parsed.version, fromVersion,
			)
		}

		lines[i] = line[:parsed.versionStart] +
			toVersion +
			line[parsed.versionStart+len(parsed.version):]
		return strings.Join(lines, "\n"), nil
	}

	return "", fmt.Errorf("%w: %q", ErrDependencyNotFound, name)
}

// ParseRequirements extracts every versioned pin from a requirements file.
// Comment, blank, and VCS-sourced lines are skipped.
func ParseRequirements(content string) []RequirementPin {
	var pins []RequirementPin
	for _, line := range strings.Split(content, "\n") {
		parsed, ok := parseRequirementLine(line)
		if !ok {
			continue
		}
		pins = append(pins, RequirementPin{Name: parsed.name, Specifier: parsed.specifier})
	}
	return pins
}

// parseRequirementLine splits one line into name and version token. It
// returns false for lines that cannot name a dependency: blanks, comments,
// VCS sources, and lines without a version expression.
func parseRequirementLine(line string) (requirementLine, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return requirementLine{}, false
	}
	requirement := trimmed
	if hash := strings.IndexByte(requirement, '#'); hash >= 0 {
		requirement = strings.TrimSpace(requirement[:hash])
	}
	for _, prefix := range vcsPrefixes {
		if strings.HasPrefix(requirement, prefix) || strings.HasPrefix(requirement, "-e "+prefix) {
			return requirementLine{}, false
		}
	}

	nameStart := indexNonSpace(line)
	nameEnd := nameStart
	for nameEnd < len(line) && !strings.ContainsRune("=<>!~;#[ \t", rune(line[nameEnd])) {
		nameEnd++
	}
	if nameEnd == nameStart {
		return requirementLine{}, false
	}

	// Skip the comparison operator and any surrounding whitespace. Extras
	// ("[...]") sit between the name and the operator.
	cursor := nameEnd
	if cursor < len(line) && line[cursor] == '[' {
		closing := strings.IndexByte(line[cursor:], ']')
		if closing < 0 {
			return requirementLine{}, false
		}
		cursor += closing + 1
	}
	exprStart := cursor
	for cursor < len(line) && strings.ContainsRune("=<>!~ \t", rune(line[cursor])) {
		cursor++
	}

	// The version token is the first clause only; later clauses of a
	// compound range stay untouched when the token is spliced.
	versionEnd := cursor
	for versionEnd < len(line) && !strings.ContainsRune(", \t\r;#", rune(line[versionEnd])) {
		versionEnd++
	}
	if versionEnd == cursor {
		return requirementLine{}, false
	}
	specifierEnd := versionEnd
	for specifierEnd < len(line) && !strings.ContainsRune(" \t\r;#", rune(line[specifierEnd])) {
		specifierEnd++
	}

	return requirementLine{
		name:         line[nameStart:nameEnd],
		specifier:    strings.TrimSpace(line[exprStart:specifierEnd]),
		version:      line[cursor:versionEnd],
		versionStart: cursor,
	}, true
}

// indexNonSpace returns the offset of the first non-blank byte.
func indexNonSpace(line string) int {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
