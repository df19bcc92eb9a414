// internal/app/lifecycle/errors.go
package lifecycle

import (
	"errors"
	"fmt"
)

// Stage names the part of the boot sequence an error came from.
type Stage string

const (
	StageConfig  Stage = "config"
	StageConnect Stage = "connect"
	StageListen  Stage = "listen"
	StageServe   Stage = "serve"
)

// StageError is returned by Run when a stage fails. Err carries the typed
// cause (secret fetch, datastore connection, bind).
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// BindError reports that the listener could not be bound.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// FailedStage returns the stage recorded in err, if any.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// ExitCode maps the result of Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
