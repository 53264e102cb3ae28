package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by manifest mutators and the update flow.
var (
	// ErrUnrecognizedManifest is returned when a file path does not map to
	// any supported manifest kind.
	ErrUnrecognizedManifest = errors.New("unrecognized manifest file")

	// ErrAlreadyRequested is returned when an update with the same ledger key
	// has already produced a change request.
	ErrAlreadyRequested = errors.New("update already requested")

	// ErrDependencyNotFound is returned when the target dependency does not
	// appear in the manifest content.
	ErrDependencyNotFound = errors.New("dependency not found in manifest")

	// ErrVersionMismatch is returned when the pinned version in the manifest
	// differs from the version the update expects to replace.
	ErrVersionMismatch = errors.New("manifest version does not match expected version")

	// ErrLockInconsistency is returned when the descriptor and its lock file
	// disagree about the dependency being updated.
	ErrLockInconsistency = errors.New("descriptor and lock file are inconsistent")
)

// Stage identifies the step of the publish flow where a gateway call failed.
type Stage string

const (
	StageLedgerCheck  Stage = "ledger-check"
	StageManifestRead Stage = "manifest-read"
	StageBranch       Stage = "branch"
	StageCommit       Stage = "commit"
	StageMergeRequest Stage = "merge-request"
	StageLedgerSave   Stage = "ledger-save"
	StageNotify       Stage = "notify"
)

// GatewayError wraps a failure from an external collaborator (Git provider,
// ledger, ticketing system) together with the publish stage it occurred in,
// so callers can tell how far the flow progressed before stopping.
type GatewayError struct {
	Stage Stage
	Err   error
}

// NewGatewayError wraps err with the stage it failed in.
func NewGatewayError(stage Stage, err error) *GatewayError {
	return &GatewayError{Stage: stage, Err: err}
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway failure at stage %q: %v", e.Stage, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
