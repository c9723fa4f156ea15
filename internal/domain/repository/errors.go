package repository

import "errors"

var (
	// ErrSubjectNotFound is returned when a subject cannot be found, is not
	// ready, or is not part of the requested series.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrTranscriptNotFound is returned when no transcript exists for a
	// (subject, language) pair. Generation treats this as a hard precondition
	// failure, never something to retry or synthesize.
	ErrTranscriptNotFound = errors.New("transcript not found")

	// ErrArtifactNotFound is returned when no derived artifact exists for a
	// (subject, language, kind) key.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrCumulativeNotFound is returned when no cumulative artifact exists
	// for a (subject, language) key.
	ErrCumulativeNotFound = errors.New("cumulative artifact not found")

	// ErrQueueUnavailable is returned by queue-dependent operations when the
	// deferred-execution collaborator was not configured at startup.
	ErrQueueUnavailable = errors.New("generation queue unavailable")

	// ErrObjectNotFound is returned when a caption object does not exist in storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound is returned when the configured storage bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
