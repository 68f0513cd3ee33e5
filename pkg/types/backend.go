package types

import "errors"

// Backend owns a connection pool and hands out the Executor the repository
// layer runs against. Callers attach with a Config and detach when done.
type Backend interface {
	// Attach opens the database described by config and creates the
	// tables if they do not exist. Returns ErrAlreadyAttached if called
	// while attached.
	Attach(config Config) error

	// Detach releases the connection pool. Idempotent. After Detach,
	// Executor returns ErrBackendDetached.
	Detach() error

	// Executor returns the SQL executor of the attached backend.
	Executor() (Executor, error)
}

// Backend lifecycle errors.
var (
	ErrBackendDetached = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
