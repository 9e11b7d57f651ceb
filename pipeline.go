package scripty

import (
	"bytes"
	"io"
	"strings"
)

// pipeMode selects which upstream streams feed the downstream stage's
// stdin.
type pipeMode int

const (
	// pipeStdout routes only stdout into the next stage. The default.
	pipeStdout pipeMode = iota
	// pipeStderr routes only stderr into the next stage; stdout is
	// inherited.
	pipeStderr
	// pipeBoth merges stdout and stderr into one stream feeding the next
	// stage. The merge order is unspecified.
	pipeBoth
)

// separator renders the mode as a shell-like pipe operator for echoing.
func (m pipeMode) separator() string {
	switch m {
	case pipeStderr:
		return "2|"
	case pipeBoth:
		return "|&"
	default:
		return "|"
	}
}

// Pipeline is an ordered sequence of commands whose adjacent stages are
// connected by OS pipes. A Pipeline is only ever created from a first Cmd,
// so it always has at least one stage. modes[i] routes stage i into stage
// i+1.
type Pipeline struct {
	stages []*Cmd
	modes  []pipeMode
}

func newPipeline(head *Cmd) *Pipeline {
	return &Pipeline{stages: []*Cmd{head}}
}

// Pipe appends next, fed by the previous stage's stdout.
func (p *Pipeline) Pipe(next *Cmd) *Pipeline {
	p.stages = append(p.stages, next)
	p.modes = append(p.modes, pipeStdout)
	return p
}

// PipeStderr appends next, fed by the previous stage's stderr.
func (p *Pipeline) PipeStderr(next *Cmd) *Pipeline {
	p.stages = append(p.stages, next)
	p.modes = append(p.modes, pipeStderr)
	return p
}

// PipeBoth appends next, fed by the previous stage's merged stdout and
// stderr. The interleaving between the two source streams is unspecified.
func (p *Pipeline) PipeBoth(next *Cmd) *Pipeline {
	p.stages = append(p.stages, next)
	p.modes = append(p.modes, pipeBoth)
	return p
}

// Input feeds text to the first stage's stdin.
func (p *Pipeline) Input(s string) *Pipeline {
	p.stages[0].Input(s)
	return p
}

// InputBytes feeds bytes to the first stage's stdin.
func (p *Pipeline) InputBytes(b []byte) *Pipeline {
	p.stages[0].InputBytes(b)
	return p
}

// InputReader streams the reader into the first stage's stdin.
func (p *Pipeline) InputReader(r io.Reader) *Pipeline {
	p.stages[0].InputReader(r)
	return p
}

// Env overlays an environment variable on every stage.
func (p *Pipeline) Env(key, value string) *Pipeline {
	for _, stage := range p.stages {
		stage.Env(key, value)
	}
	return p
}

// NoEcho suppresses echoing for the whole pipeline.
func (p *Pipeline) NoEcho() *Pipeline {
	for _, stage := range p.stages {
		stage.NoEcho()
	}
	return p
}

// Run executes the pipeline with inherited stdio. It returns an error when
// any stage fails to spawn, any executor-owned stream fails, or a stage
// exits non-zero; failures are attributed to the lowest failing stage
// index.
func (p *Pipeline) Run() error {
	h, _, err := p.start(execRequest{})
	if err != nil {
		return err
	}
	return h.Wait()
}

// Output executes the pipeline and captures the terminal stage's stdout as
// text. Byte sequences that are not valid UTF-8 are replaced with the
// Unicode replacement character. Stderr is inherited.
func (p *Pipeline) Output() (string, error) {
	b, err := p.OutputBytes()
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "�"), nil
}

// OutputBytes executes the pipeline and captures the terminal stage's
// stdout as raw bytes.
func (p *Pipeline) OutputBytes() ([]byte, error) {
	var buf bytes.Buffer
	h, _, err := p.start(execRequest{stdout: stdioCapture, stdoutSink: &buf})
	if err != nil {
		return nil, err
	}
	if err := h.Wait(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StreamTo executes the pipeline, copying the terminal stage's stdout into
// w. The copy runs on a dedicated goroutine so a slow writer cannot
// deadlock the pipeline.
func (p *Pipeline) StreamTo(w io.Writer) error {
	h, _, err := p.start(execRequest{stdout: stdioCapture, stdoutSink: w})
	if err != nil {
		return err
	}
	return h.Wait()
}

// RunWithIO executes the pipeline with r feeding the first stage's stdin
// and the terminal stage's stdout streaming into w.
func (p *Pipeline) RunWithIO(r io.Reader, w io.Writer) error {
	p.stages[0].InputReader(r)
	return p.StreamTo(w)
}
