package scripty

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
)

// drainSet tracks the background goroutines that copy bytes between OS
// pipe endpoints and in-memory buffers or caller-supplied streams. Each
// goroutine exclusively owns one stream end; the set only collects their
// results, so drains never contend with each other over stream state.
type drainSet struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []*IOError
}

// spawn runs fn on a dedicated goroutine. fn performs a blocking copy and
// must close the descriptor it owns before returning. Registration order
// is significant: report keeps errors in spawn order, which gives stdin
// precedence over captures during reduction for a single-stage pipeline.
func (d *drainSet) spawn(stage int, stream string, fn func() error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.report(stage, stream, fmt.Errorf("drain panicked: %v", r))
			}
		}()
		if err := fn(); err != nil {
			d.report(stage, stream, err)
		}
	}()
}

func (d *drainSet) report(stage int, stream string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs = append(d.errs, &IOError{Stage: stage, Stream: stream, Err: err})
}

// join blocks until every drain goroutine has finished.
func (d *drainSet) join() {
	d.wg.Wait()
}

// errFor returns the first recorded failure for the given stage, or nil.
// Safe to call only after join.
func (d *drainSet) errFor(stage int) *IOError {
	for _, e := range d.errs {
		if e.Stage == stage {
			return e
		}
	}
	return nil
}

// ignoreBrokenPipe filters the error a stdin feed sees when the consumer
// exits before reading all of its input (head, grep -q, ...). That is
// normal pipeline behavior, not a failure.
func ignoreBrokenPipe(err error) error {
	if errors.Is(err, syscall.EPIPE) {
		return nil
	}
	return err
}
