package scripty

import "fmt"

// SpawnError reports that the OS could not create the process for a stage
// (program not found, permission denied, resource limits). A spawn failure
// is fatal for the whole pipeline: later stages are never started and
// already-started earlier stages are waited on before the error is
// returned.
type SpawnError struct {
	// Stage is the zero-based index of the failing stage.
	Stage int

	// Program is the program name of the failing stage.
	Program string

	// Err is the underlying error from os/exec.
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %q (stage %d): %v", e.Program, e.Stage, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// IOError reports a failed copy on an executor-owned stream: feeding an
// input source into the first stage's stdin, or draining a captured stream
// of the terminal stage. A drain goroutine that panics is also converted
// into an IOError rather than crashing the waiting goroutine.
type IOError struct {
	// Stage is the zero-based index of the stage the stream belongs to.
	Stage int

	// Stream is "stdin", "stdout" or "stderr".
	Stream string

	// Err is the underlying I/O error.
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s of stage %d: %v", e.Stream, e.Stage, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ExitError reports a stage that ran to completion but returned a non-zero
// status. The executor itself does not treat a non-zero exit as an error;
// helpers like Run and Output convert it into one. Callers who need
// shell-like status semantics (grep's "1 means no match") can inspect the
// code:
//
//	err := scripty.Command("grep", "pattern", "file").Run()
//	var exitErr *scripty.ExitError
//	if errors.As(err, &exitErr) && exitErr.Code == 1 {
//		// no match, not a failure
//	}
type ExitError struct {
	// Stage is the zero-based index of the exiting stage.
	Stage int

	// Program is the program name of the exiting stage.
	Program string

	// Code is the exit status. -1 means the process was terminated by a
	// signal.
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%q (stage %d) exited with code %d", e.Program, e.Stage, e.Code)
}
