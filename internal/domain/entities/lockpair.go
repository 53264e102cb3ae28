package entities

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// descriptorDocument is the subset of a pyproject.toml needed to locate
// dependency constraints.
type descriptorDocument struct {
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any             `toml:"dependencies"`
			DevDependencies map[string]any             `toml:"dev-dependencies"`
			Group           map[string]dependencyGroup `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

type dependencyGroup struct {
	Dependencies map[string]any `toml:"dependencies"`
}

// lockDocument is the subset of a poetry.lock needed to validate resolved
// package blocks. A name can appear in several blocks when the resolution
// differs per platform or extra marker.
type lockDocument struct {
	Package []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

var (
	lockBlockPattern   = regexp.MustCompile(`^\s*\[\[package]]`)
	lockNamePattern    = regexp.MustCompile(`^\s*name\s*=\s*"([^"]+)"`)
	lockVersionPattern = regexp.MustCompile(`^(\s*version\s*=\s*")([^"]+)(".*)$`)
	lockHashPattern    = regexp.MustCompile(`^(\s*hash\s*=\s*")([^"]+)(".*)$`)
)

// UpdateLockPair rewrites the dependency pin in a descriptor document and
// its companion lock document. The constraint operator in the descriptor
// (caret, tilde, exact) is preserved; every lock block resolving the
// dependency gets the new version, and the new integrity value when one is
// supplied. Both documents are returned rewritten, or neither on failure.
func UpdateLockPair(
	descriptor, lock string,
	name, fromVersion, toVersion, integrity string,
) (string, string, error) {
	constraint, found := descriptorConstraint(descriptor, name)
	if !found {
		return "", "", fmt.Errorf("%w: %q", ErrDependencyNotFound, name)
	}

	var lockDoc lockDocument
	if err := toml.Unmarshal([]byte(lock), &lockDoc); err != nil {
		return "", "", fmt.Errorf("%w: parsing lock file: %v", ErrLockInconsistency, err)
	}

	matchingBlocks := 0
	for _, pkg := range lockDoc.Package {
		if pkg.Name != name {
			continue
		}
		matchingBlocks++
		if pkg.Version != fromVersion {
			return "", "", fmt.Errorf(
				"%w: lock resolves %q to %q, expected %q",
				ErrLockInconsistency, name, pkg.Version, fromVersion,
			)
		}
	}
	if matchingBlocks == 0 {
		return "", "", fmt.Errorf("%w: %q has no lock block", ErrLockInconsistency, name)
	}

	if pinned := Unhole(constraint); pinned != fromVersion {
		return "", "", fmt.Errorf(
			"%w: descriptor pins %q to %q, lock records %q",
			ErrLockInconsistency, name, pinned, fromVersion,
		)
	}

	newDescriptor, err := rewriteDescriptor(descriptor, name, fromVersion, toVersion)
	if err != nil {
		return "", "", err
	}

	newLock, rewritten := rewriteLock(lock, name, toVersion, integrity)
	if rewritten != matchingBlocks {
		return "", "", fmt.Errorf(
			"%w: rewrote %d lock blocks for %q, expected %d",
			ErrLockInconsistency, rewritten, name, matchingBlocks,
		)
	}

	return newDescriptor, newLock, nil
}

// ParseDescriptorPins extracts every dependency constraint from a descriptor
// document. The interpreter pin ("python") is not a dependency and is
// skipped.
func ParseDescriptorPins(descriptor string) []RequirementPin {
	var doc descriptorDocument
	if err := toml.Unmarshal([]byte(descriptor), &doc); err != nil {
		return nil
	}

	var pins []RequirementPin
	appendTable := func(table map[string]any) {
		for depName, value := range table {
			if depName == "python" {
				continue
			}
			if constraint, ok := constraintValue(value); ok {
				pins = append(pins, RequirementPin{Name: depName, Specifier: constraint})
			}
		}
	}

	appendTable(doc.Tool.Poetry.Dependencies)
	appendTable(doc.Tool.Poetry.DevDependencies)
	for _, group := range doc.Tool.Poetry.Group {
		appendTable(group.Dependencies)
	}
	return pins
}

// descriptorConstraint locates the version constraint for name across the
// main, dev, and group dependency tables.
func descriptorConstraint(descriptor, name string) (string, bool) {
	var doc descriptorDocument
	if err := toml.Unmarshal([]byte(descriptor), &doc); err != nil {
		return "", false
	}

	tables := []map[string]any{
		doc.Tool.Poetry.Dependencies,
		doc.Tool.Poetry.DevDependencies,
	}
	for _, group := range doc.Tool.Poetry.Group {
		tables = append(tables, group.Dependencies)
	}

	for _, table := range tables {
		if value, ok := table[name]; ok {
			return constraintValue(value)
		}
	}
	return "", false
}

// constraintValue extracts the constraint string from a dependency entry,
// which is either a bare string or an inline table with a "version" key.
func constraintValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case map[string]any:
		if version, ok := typed["version"].(string); ok {
			return version, true
		}
	}
	return "", false
}

// rewriteDescriptor replaces the version inside the first assignment line
// for the dependency, keeping the constraint operator and everything else on
// the line intact.
func rewriteDescriptor(descriptor, name, fromVersion, toVersion string) (string, error) {
	assignPattern := regexp.MustCompile(`^\s*"?` + regexp.QuoteMeta(name) + `"?\s*=`)

	lines := strings.Split(descriptor, "\n")
	for i, line := range lines {
		if !assignPattern.MatchString(line) || !strings.Contains(line, fromVersion) {
			continue
		}
		lines[i] = strings.Replace(line, fromVersion, toVersion, 1)
		return strings.Join(lines, "\n"), nil
	}

	return "", fmt.Errorf(
		"%w: constraint for %q does not contain %q",
		ErrLockInconsistency, name, fromVersion,
	)
}

// rewriteLock updates the version (and integrity, when given) line of every
// package block matching name, and reports how many blocks were rewritten.
func rewriteLock(lock, name, toVersion, integrity string) (string, int) {
	lines := strings.Split(lock, "\n")

	inMatchingBlock := false
	rewritten := 0
	for i, line := range lines {
		switch {
		case lockBlockPattern.MatchString(line):
			inMatchingBlock = false
		case !inMatchingBlock:
			if m := lockNamePattern.FindStringSubmatch(line); m != nil && m[1] == name {
				inMatchingBlock = true
			}
		case lockVersionPattern.MatchString(line):
			lines[i] = lockVersionPattern.ReplaceAllString(line, "${1}"+toVersion+"${3}")
			rewritten++
		case integrity != "" && lockHashPattern.MatchString(line):
			lines[i] = lockHashPattern.ReplaceAllString(line, "${1}"+integrity+"${3}")
		}
	}

	return strings.Join(lines, "\n"), rewritten
}
