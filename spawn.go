package scripty

import "io"

// The spawn family covers all 2³ combinations of {stdin, stdout, stderr}
// presence. Every variant returns immediately after the last stage starts;
// the caller drives the returned endpoints and must eventually call Wait
// on the Handle. Streams not handed out behave as in Run: inherited from
// the parent (or fed from a configured input source).
//
// Claiming stdin as an endpoint overrides any input source configured with
// Input, InputBytes or InputReader.

// Spawn starts the pipeline without handing out any stream.
func (p *Pipeline) Spawn() (*Handle, error) {
	h, _, err := p.start(execRequest{})
	return h, err
}

// SpawnIOIn starts the pipeline and hands out the first stage's stdin.
// The caller must close the writer for the stage to see end-of-input.
func (p *Pipeline) SpawnIOIn() (*Handle, io.WriteCloser, error) {
	h, ep, err := p.start(execRequest{stdin: stdioEndpoint})
	if err != nil {
		return nil, nil, err
	}
	return h, ep.stdin, nil
}

// SpawnIOOut starts the pipeline and hands out the terminal stage's
// stdout.
func (p *Pipeline) SpawnIOOut() (*Handle, io.ReadCloser, error) {
	h, ep, err := p.start(execRequest{stdout: stdioEndpoint})
	if err != nil {
		return nil, nil, err
	}
	return h, ep.stdout, nil
}

// SpawnIOErr starts the pipeline and hands out the terminal stage's
// stderr.
func (p *Pipeline) SpawnIOErr() (*Handle, io.ReadCloser, error) {
	h, ep, err := p.start(execRequest{stderr: stdioEndpoint})
	if err != nil {
		return nil, nil, err
	}
	return h, ep.stderr, nil
}

// SpawnIOInOut starts the pipeline and hands out stdin and stdout.
func (p *Pipeline) SpawnIOInOut() (*Handle, io.WriteCloser, io.ReadCloser, error) {
	h, ep, err := p.start(execRequest{stdin: stdioEndpoint, stdout: stdioEndpoint})
	if err != nil {
		return nil, nil, nil, err
	}
	return h, ep.stdin, ep.stdout, nil
}

// SpawnIOInErr starts the pipeline and hands out stdin and stderr.
func (p *Pipeline) SpawnIOInErr() (*Handle, io.WriteCloser, io.ReadCloser, error) {
	h, ep, err := p.start(execRequest{stdin: stdioEndpoint, stderr: stdioEndpoint})
	if err != nil {
		return nil, nil, nil, err
	}
	return h, ep.stdin, ep.stderr, nil
}

// SpawnIOOutErr starts the pipeline and hands out stdout and stderr.
func (p *Pipeline) SpawnIOOutErr() (*Handle, io.ReadCloser, io.ReadCloser, error) {
	h, ep, err := p.start(execRequest{stdout: stdioEndpoint, stderr: stdioEndpoint})
	if err != nil {
		return nil, nil, nil, err
	}
	return h, ep.stdout, ep.stderr, nil
}

// Spawn bundles the Handle and stream endpoints of a full-control spawn.
// Endpoints the caller did not receive are nil.
type Spawn struct {
	Handle *Handle
	Stdin  io.WriteCloser
	Stdout io.ReadCloser
	Stderr io.ReadCloser
}

// SpawnIOAll starts the pipeline and hands out all three streams.
func (p *Pipeline) SpawnIOAll() (*Spawn, error) {
	h, ep, err := p.start(execRequest{
		stdin:  stdioEndpoint,
		stdout: stdioEndpoint,
		stderr: stdioEndpoint,
	})
	if err != nil {
		return nil, err
	}
	return &Spawn{Handle: h, Stdin: ep.stdin, Stdout: ep.stdout, Stderr: ep.stderr}, nil
}

// SpawnWithIO is an alias for SpawnIOAll.
func (p *Pipeline) SpawnWithIO() (*Spawn, error) {
	return p.SpawnIOAll()
}
