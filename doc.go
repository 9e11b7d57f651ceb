// Package scripty makes running shell-like command pipelines easy and
// visible. It wraps os/exec with a fluent builder, automatic command
// echoing, and ergonomic I/O capture, so system automation reads like a
// shell script while keeping Go's error handling.
//
// # Basic Usage
//
// Build a command and run it:
//
//	err := scripty.Command("echo", "Hello, World!").Run()
//
//	out, err := scripty.Command("date").Output()
//	fmt.Println(strings.TrimSpace(out))
//
//	err := scripty.Command("grep", "error").
//		Arg("logfile.txt").
//		Dir("/var/log").
//		Env("LANG", "C").
//		Run()
//
// # Pipelines
//
// Chain commands with Pipe; adjacent stages are connected by native OS
// pipes and run concurrently, streaming data without buffering it all in
// memory:
//
//	out, err := scripty.Command("cat", "/etc/passwd").
//		Pipe(scripty.Command("grep", "bash")).
//		Pipe(scripty.Command("wc", "-l")).
//		Output()
//
// PipeStderr routes only stderr to the next stage and PipeBoth merges
// stdout and stderr; the merge interleaving of PipeBoth is unspecified.
//
// # Input and Output
//
//	out, err := scripty.Command("sort").
//		Input("banana\napple\ncherry\n").
//		Output()
//
//	f, _ := os.Open("large.txt")
//	err := scripty.Command("grep", "pattern").InputReader(f).Run()
//
//	var buf bytes.Buffer
//	err := scripty.Command("seq", "1", "5").StreamTo(&buf)
//
// # Advanced I/O Control
//
// The spawn family covers every combination of {stdin, stdout, stderr}
// control. The caller drives the returned endpoints and finishes with
// Wait:
//
//	h, stdin, stdout, err := scripty.Command("sort").SpawnIOInOut()
//	go func() {
//		defer stdin.Close()
//		io.WriteString(stdin, "zebra\napple\n")
//	}()
//	sorted, _ := io.ReadAll(stdout)
//	err = h.Wait()
//
// # Echoing
//
// Commands are echoed to stderr as shell-like lines before they spawn.
// Disable per command with NoEcho, per Runner with WithNoEcho, or process
// wide with the NO_ECHO environment variable.
//
// # Errors
//
// Failures carry the index of the first failing stage: *SpawnError when
// the OS could not create a process, *IOError when an executor-owned
// stream copy failed, and *ExitError for a non-zero exit status. Raw exit
// codes stay inspectable through Handle.ExitCode for shell-like status
// handling.
package scripty
