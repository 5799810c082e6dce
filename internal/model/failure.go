package model

import "fmt"

// FailureReason classifies why a candidate was not committed.
type FailureReason string

const (
	// FailureMismatch means both builds succeeded but the normalized outputs differ.
	FailureMismatch FailureReason = "mismatch"
	// FailureBuild means the rewritten source failed to build.
	FailureBuild FailureReason = "build-error"
)

// FailureRecord is the artifact bundle persisted for one rejected candidate.
type FailureRecord struct {
	File      Path
	Index     int
	Candidate Candidate
	Reason    FailureReason

	Before []byte // source before the rewrite
	After  []byte // source after the rewrite

	BeforeRaw        string
	AfterRaw         string
	BeforeNormalized string
	AfterNormalized  string

	// Error is the build diagnostic when Reason is FailureBuild.
	Error string
}

// BuildError is returned by a build oracle when the external build exits non-zero.
type BuildError struct {
	Diagnostic string
	Err        error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed: %s", e.Diagnostic)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
