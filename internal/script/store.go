package script

import (
	"context"
	"errors"
)

// Static errors for script persistence.
var (
	// ErrScriptNotFound is returned when a script cannot be found by ID.
	ErrScriptNotFound = errors.New("script not found")
	// ErrVideoActive is returned by StartVideoAttempt when the script
	// already has a pending or generating video job.
	ErrVideoActive = errors.New("video job already active")
)

// Store defines the interface for script persistence.
// It acts as a port in the hexagonal architecture pattern.
type Store interface {
	// Save persists a script. If the script already exists it is updated.
	Save(ctx context.Context, sc *Script) error

	// FindByID retrieves a script by its unique identifier.
	// Returns ErrScriptNotFound if the script does not exist.
	FindByID(ctx context.Context, id string) (*Script, error)

	// List returns all scripts ordered by creation time, newest first.
	List(ctx context.Context) ([]*Script, error)

	// Delete removes a script.
	// Returns ErrScriptNotFound if the script does not exist.
	Delete(ctx context.Context, id string) error

	// StartVideoAttempt atomically checks that the script has no active
	// video job and moves it to pending for the given provider. This is
	// the duplicate-work guard: it returns ErrVideoActive if a job is
	// already pending or generating, leaving the record untouched.
	StartVideoAttempt(ctx context.Context, id string, provider VideoProvider) error

	// SetVideoStatus overwrites the script's video job record. The caller
	// (orchestrator or poller) is the source of truth for transitions
	// after an attempt has started.
	SetVideoStatus(ctx context.Context, id string, video VideoJob) error
}
