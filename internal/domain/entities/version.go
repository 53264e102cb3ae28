package entities

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionDifference classifies how far apart two versions are.
type VersionDifference int

const (
	DifferenceNone VersionDifference = iota
	DifferencePatch
	DifferenceMinor
	DifferenceMajor
)

// holeSymbols are the characters that make a version expression a range or
// wildcard instead of an exact pin.
const holeSymbols = "*<>~^!,"

// IsHoled reports whether the version expression is a range or wildcard
// rather than an exact pin.
func IsHoled(version string) bool {
	return strings.ContainsAny(version, holeSymbols)
}

// Unhole reduces a version expression to its concrete base version: the
// first comma-separated clause with operators and wildcard suffixes stripped.
// Exact pins are returned trimmed but otherwise unchanged.
func Unhole(version string) string {
	base := strings.TrimSpace(version)
	if at := strings.IndexByte(base, ','); at >= 0 {
		base = base[:at]
	}
	base = strings.TrimLeft(base, "=<>!~^ \t")
	base = strings.TrimRight(base, ".* \t")
	return base
}

// DifferenceBetween classifies the jump from current to next. It returns
// DifferenceNone when either version cannot be parsed or when next is not
// strictly greater than current.
func DifferenceBetween(current, next string) VersionDifference {
	cur, err := semver.NewVersion(Unhole(current))
	if err != nil {
		return DifferenceNone
	}
	nxt, err := semver.NewVersion(Unhole(next))
	if err != nil {
		return DifferenceNone
	}

	if !nxt.GreaterThan(cur) {
		return DifferenceNone
	}

	switch {
	case nxt.Major() != cur.Major():
		return DifferenceMajor
	case nxt.Minor() != cur.Minor():
		return DifferenceMinor
	default:
		return DifferencePatch
	}
}
