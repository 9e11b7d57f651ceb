package scripty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/MozkTaberenai/scripty/internal/echo"
)

// stdioMode is the disposition of one stream on the pipeline boundary.
type stdioMode int

const (
	// stdioInherit leaves the stream connected to the parent's stdio.
	stdioInherit stdioMode = iota
	// stdioCapture has the executor drain the stream into a sink on a
	// dedicated goroutine.
	stdioCapture
	// stdioEndpoint hands the raw pipe end to the caller.
	stdioEndpoint
)

// execRequest describes which streams of the pipeline boundary the caller
// wants, and how. stdin refers to the first stage; stdout and stderr refer
// to the terminal stage. An input source configured on the first stage
// implies an executor-owned feed unless the caller claimed stdin as an
// endpoint.
type execRequest struct {
	stdin      stdioMode
	stdout     stdioMode
	stderr     stdioMode
	stdoutSink io.Writer
}

// endpoints carries the caller-owned stream ends of a non-blocking spawn.
// Absent streams are nil.
type endpoints struct {
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// pendingDrain is a drain goroutine that must not start until every stage
// has spawned. Starting a feed earlier could block forever against a pipe
// whose reader never came to exist.
type pendingDrain struct {
	stage  int
	stream string
	fn     func() error
}

// start launches every stage of the pipeline in ascending order, wiring
// adjacent stages through OS pipes and setting up drain goroutines for
// every stream the executor owns.
//
// Descriptor ownership is strict: each pipe end has exactly one owner. The
// parent's copies of ends inherited by a child are closed immediately
// after that child starts; a stray open write end would keep the read side
// from ever seeing EOF.
func (p *Pipeline) start(req execRequest) (*Handle, *endpoints, error) {
	n := len(p.stages)
	if n == 0 {
		return nil, nil, errors.New("scripty: pipeline has no stages")
	}
	for i := 1; i < n; i++ {
		if p.stages[i].input != nil {
			return nil, nil, fmt.Errorf("scripty: input source set on stage %d; only the first stage takes input", i)
		}
	}

	cmds := make([]*exec.Cmd, n)
	for i, stage := range p.stages {
		cmd := exec.Command(stage.program, stage.args...)
		cmd.Dir = stage.effectiveDir()
		if env := stage.effectiveEnv(); len(env) > 0 {
			cmd.Env = os.Environ()
			for k, v := range env {
				cmd.Env = append(cmd.Env, k+"="+v)
			}
		}
		cmds[i] = cmd
	}

	h := newHandle(p, cmds)
	ep := &endpoints{}

	// closeAfter[i] holds the parent-side descriptors released right
	// after stage i starts. unstarted holds descriptors owned by drains
	// or endpoints; they are closed only if a spawn fails before the
	// drains run or the caller ever sees them.
	closeAfter := make([][]*os.File, n)
	var unstarted []*os.File
	var drains []pendingDrain

	abort := func(from int) {
		for j := from; j < n; j++ {
			for _, f := range closeAfter[j] {
				_ = f.Close()
			}
		}
		for _, f := range unstarted {
			_ = f.Close()
		}
	}

	// First stage stdin. A caller-claimed endpoint wins over a configured
	// input source.
	switch {
	case req.stdin == stdioEndpoint:
		pr, pw, err := os.Pipe()
		if err != nil {
			abort(0)
			return nil, nil, err
		}
		cmds[0].Stdin = pr
		closeAfter[0] = append(closeAfter[0], pr)
		unstarted = append(unstarted, pw)
		ep.stdin = pw
	case p.stages[0].input != nil:
		pr, pw, err := os.Pipe()
		if err != nil {
			abort(0)
			return nil, nil, err
		}
		cmds[0].Stdin = pr
		closeAfter[0] = append(closeAfter[0], pr)
		unstarted = append(unstarted, pw)
		input := p.stages[0].input
		drains = append(drains, pendingDrain{stage: 0, stream: "stdin", fn: func() error {
			defer pw.Close()
			_, err := io.Copy(pw, input)
			return ignoreBrokenPipe(err)
		}})
	default:
		cmds[0].Stdin = os.Stdin
	}

	// Adjacent links. The write end belongs to the upstream child, the
	// read end becomes the downstream child's stdin.
	for i := 0; i < n-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			abort(0)
			return nil, nil, err
		}
		switch p.modes[i] {
		case pipeStderr:
			cmds[i].Stdout = os.Stdout
			cmds[i].Stderr = pw
		case pipeBoth:
			cmds[i].Stdout = pw
			cmds[i].Stderr = pw
		default:
			cmds[i].Stdout = pw
			cmds[i].Stderr = os.Stderr
		}
		cmds[i+1].Stdin = pr
		closeAfter[i] = append(closeAfter[i], pw)
		closeAfter[i+1] = append(closeAfter[i+1], pr)
	}

	// Terminal stage stdout.
	last := n - 1
	switch req.stdout {
	case stdioCapture:
		pr, pw, err := os.Pipe()
		if err != nil {
			abort(0)
			return nil, nil, err
		}
		cmds[last].Stdout = pw
		closeAfter[last] = append(closeAfter[last], pw)
		unstarted = append(unstarted, pr)
		sink := req.stdoutSink
		drains = append(drains, pendingDrain{stage: last, stream: "stdout", fn: func() error {
			defer pr.Close()
			_, err := io.Copy(sink, pr)
			return err
		}})
	case stdioEndpoint:
		pr, pw, err := os.Pipe()
		if err != nil {
			abort(0)
			return nil, nil, err
		}
		cmds[last].Stdout = pw
		closeAfter[last] = append(closeAfter[last], pw)
		unstarted = append(unstarted, pr)
		ep.stdout = pr
	}

	// Terminal stage stderr.
	if req.stderr == stdioEndpoint {
		pr, pw, err := os.Pipe()
		if err != nil {
			abort(0)
			return nil, nil, err
		}
		cmds[last].Stderr = pw
		closeAfter[last] = append(closeAfter[last], pw)
		unstarted = append(unstarted, pr)
		ep.stderr = pr
	}
	if cmds[last].Stdout == nil {
		cmds[last].Stdout = os.Stdout
	}
	if cmds[last].Stderr == nil {
		cmds[last].Stderr = os.Stderr
	}

	// Spawn strictly in stage order, echoing each command line right
	// before its stage starts. A failure aborts the remaining stages:
	// their descriptors are closed (which unblocks the already-running
	// upstream with EOF or EPIPE) and the started stages are reaped
	// before the error returns.
	for i, cmd := range cmds {
		stage := p.stages[i]
		if stage.echoEnabled() {
			prefix := "$"
			if i > 0 {
				prefix = p.modes[i-1].separator()
			}
			stage.runnerOrDefault().sink.Linef("%s %s", prefix, echo.Render(stage.program, stage.args))
		}
		if err := cmd.Start(); err != nil {
			abort(i)
			for j := 0; j < i; j++ {
				_ = cmds[j].Wait()
			}
			return nil, nil, &SpawnError{Stage: i, Program: stage.program, Err: err}
		}
		for _, f := range closeAfter[i] {
			_ = f.Close()
		}
		closeAfter[i] = nil
	}

	for _, d := range drains {
		h.drains.spawn(d.stage, d.stream, d.fn)
	}
	return h, ep, nil
}
