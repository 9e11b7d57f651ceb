package scripty

import (
	"errors"
	"os/exec"
	"sync"
)

// Handle is an awaitable reference to a spawned pipeline. Wait blocks
// until every stage has exited and every drain goroutine has been joined,
// then reduces the per-stage outcomes into one result.
//
// Wait is idempotent: the reduction runs once and later calls return the
// cached result.
type Handle struct {
	programs []string
	cmds     []*exec.Cmd
	drains   *drainSet
	exits    []int

	once sync.Once
	err  error
}

func newHandle(p *Pipeline, cmds []*exec.Cmd) *Handle {
	programs := make([]string, len(p.stages))
	for i, stage := range p.stages {
		programs[i] = stage.program
	}
	return &Handle{
		programs: programs,
		cmds:     cmds,
		drains:   &drainSet{},
		exits:    make([]int, len(cmds)),
	}
}

// Wait blocks until all stages and drain goroutines finish and returns the
// pipeline's aggregate result: nil on success, or the failure of the
// lowest-index failing stage (an *IOError or *ExitError).
//
// Callers holding spawned stream endpoints must drain or close them;
// waiting on a pipeline whose captured stream nobody reads risks the same
// pipe-full deadlock the blocking helpers avoid internally.
func (h *Handle) Wait() error {
	h.once.Do(func() {
		h.err = h.wait()
	})
	return h.err
}

func (h *Handle) wait() error {
	for i, cmd := range h.cmds {
		err := cmd.Wait()
		h.exits[i] = cmd.ProcessState.ExitCode()
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			// Wait failed for a reason other than exit status; treat it
			// like an I/O failure on the stage's plumbing.
			h.drains.report(i, "process", err)
		}
	}
	h.drains.join()
	return h.reduce()
}

// reduce scans stages in ascending index order so failure attribution is
// deterministic regardless of how the OS interleaved stage exits. Within
// one stage an I/O failure outranks the exit status.
func (h *Handle) reduce() error {
	for i := range h.cmds {
		if e := h.drains.errFor(i); e != nil {
			return e
		}
		if h.exits[i] != 0 {
			return &ExitError{Stage: i, Program: h.programs[i], Code: h.exits[i]}
		}
	}
	return nil
}

// NumStages returns the number of stages in the pipeline.
func (h *Handle) NumStages() int {
	return len(h.cmds)
}

// ExitCode returns the exit status of the given stage. It is only
// meaningful after Wait has returned; -1 means the stage was terminated by
// a signal.
func (h *Handle) ExitCode(stage int) int {
	return h.exits[stage]
}
