package scripty

import (
	"bytes"
	"io"
	"strings"
)

// Cmd describes one external process invocation: program, arguments,
// environment overlays, working directory, input source, and echo
// preference. A Cmd is built fluently and stays inert until an execution
// method spawns it; there is nothing to validate before that point, so the
// builder methods never fail. Program-not-found and friends surface at
// spawn time.
type Cmd struct {
	runner  *Runner
	program string
	args    []string
	env     map[string]string
	dir     string
	input   io.Reader
	noEcho  bool
}

// Arg appends a single positional argument.
func (c *Cmd) Arg(arg string) *Cmd {
	c.args = append(c.args, arg)
	return c
}

// Args appends several positional arguments, preserving order.
func (c *Cmd) Args(args ...string) *Cmd {
	c.args = append(c.args, args...)
	return c
}

// Env overlays one environment variable on the inherited environment.
func (c *Cmd) Env(key, value string) *Cmd {
	if c.env == nil {
		c.env = make(map[string]string)
	}
	c.env[key] = value
	return c
}

// Dir sets the working directory. When unset the command inherits the
// caller's current directory.
func (c *Cmd) Dir(dir string) *Cmd {
	c.dir = dir
	return c
}

// Input feeds the given text to the command's stdin.
// Input, InputBytes and InputReader are mutually exclusive; the last call
// wins.
func (c *Cmd) Input(s string) *Cmd {
	c.input = strings.NewReader(s)
	return c
}

// InputBytes feeds the given bytes to the command's stdin.
func (c *Cmd) InputBytes(b []byte) *Cmd {
	c.input = bytes.NewReader(b)
	return c
}

// InputReader streams the reader into the command's stdin. The reader is
// drained by a background goroutine while the command runs, so arbitrarily
// large inputs are fed with bounded memory.
func (c *Cmd) InputReader(r io.Reader) *Cmd {
	c.input = r
	return c
}

// NoEcho suppresses echoing for this command only.
func (c *Cmd) NoEcho() *Cmd {
	c.noEcho = true
	return c
}

// Pipe connects this command's stdout to next's stdin, starting a
// pipeline.
func (c *Cmd) Pipe(next *Cmd) *Pipeline {
	return newPipeline(c).Pipe(next)
}

// PipeStderr connects this command's stderr to next's stdin.
func (c *Cmd) PipeStderr(next *Cmd) *Pipeline {
	return newPipeline(c).PipeStderr(next)
}

// PipeBoth merges this command's stdout and stderr into next's stdin.
// The interleaving of the two source streams is unspecified; OS pipes
// offer no atomic multiplexing guarantee.
func (c *Cmd) PipeBoth(next *Cmd) *Pipeline {
	return newPipeline(c).PipeBoth(next)
}

// runnerOrDefault resolves which Runner's settings govern this command.
func (c *Cmd) runnerOrDefault() *Runner {
	if c.runner != nil {
		return c.runner
	}
	return defaultRunner()
}

// echoEnabled reports whether this command should be echoed at spawn time.
func (c *Cmd) echoEnabled() bool {
	return !c.noEcho && !c.runnerOrDefault().settings.NoEcho
}

// effectiveDir resolves the working directory, preferring the per-command
// setting over the runner default.
func (c *Cmd) effectiveDir() string {
	if c.dir != "" {
		return c.dir
	}
	return c.runnerOrDefault().dir
}

// effectiveEnv merges runner-level overlays with per-command overlays.
// Per-command values win.
func (c *Cmd) effectiveEnv() map[string]string {
	runner := c.runnerOrDefault()
	if len(runner.env) == 0 && len(c.env) == 0 {
		return nil
	}
	env := make(map[string]string, len(runner.env)+len(c.env))
	for k, v := range runner.env {
		env[k] = v
	}
	for k, v := range c.env {
		env[k] = v
	}
	return env
}

// Single-command execution delegates to a degenerate one-stage pipeline,
// so Cmd and Pipeline share one executor.

// Run executes the command with inherited stdio.
func (c *Cmd) Run() error {
	return newPipeline(c).Run()
}

// Output executes the command and captures stdout as text. Invalid UTF-8
// is replaced, not rejected.
func (c *Cmd) Output() (string, error) {
	return newPipeline(c).Output()
}

// OutputBytes executes the command and captures stdout as raw bytes.
func (c *Cmd) OutputBytes() ([]byte, error) {
	return newPipeline(c).OutputBytes()
}

// StreamTo executes the command, copying stdout into w.
func (c *Cmd) StreamTo(w io.Writer) error {
	return newPipeline(c).StreamTo(w)
}

// RunWithIO executes the command with r feeding stdin and stdout streaming
// into w.
func (c *Cmd) RunWithIO(r io.Reader, w io.Writer) error {
	return newPipeline(c).RunWithIO(r, w)
}

// Spawn starts the command without taking over any stdio stream.
func (c *Cmd) Spawn() (*Handle, error) {
	return newPipeline(c).Spawn()
}

// SpawnIOIn starts the command and hands the caller its stdin.
func (c *Cmd) SpawnIOIn() (*Handle, io.WriteCloser, error) {
	return newPipeline(c).SpawnIOIn()
}

// SpawnIOOut starts the command and hands the caller its stdout.
func (c *Cmd) SpawnIOOut() (*Handle, io.ReadCloser, error) {
	return newPipeline(c).SpawnIOOut()
}

// SpawnIOErr starts the command and hands the caller its stderr.
func (c *Cmd) SpawnIOErr() (*Handle, io.ReadCloser, error) {
	return newPipeline(c).SpawnIOErr()
}

// SpawnIOInOut starts the command and hands the caller its stdin and
// stdout.
func (c *Cmd) SpawnIOInOut() (*Handle, io.WriteCloser, io.ReadCloser, error) {
	return newPipeline(c).SpawnIOInOut()
}

// SpawnIOInErr starts the command and hands the caller its stdin and
// stderr.
func (c *Cmd) SpawnIOInErr() (*Handle, io.WriteCloser, io.ReadCloser, error) {
	return newPipeline(c).SpawnIOInErr()
}

// SpawnIOOutErr starts the command and hands the caller its stdout and
// stderr.
func (c *Cmd) SpawnIOOutErr() (*Handle, io.ReadCloser, io.ReadCloser, error) {
	return newPipeline(c).SpawnIOOutErr()
}

// SpawnIOAll starts the command and hands the caller all three streams.
func (c *Cmd) SpawnIOAll() (*Spawn, error) {
	return newPipeline(c).SpawnIOAll()
}

// SpawnWithIO is an alias for SpawnIOAll.
func (c *Cmd) SpawnWithIO() (*Spawn, error) {
	return newPipeline(c).SpawnWithIO()
}
