package scripty

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnNoStreams(t *testing.T) {
	h, err := Command("true").NoEcho().Spawn()
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	assert.Equal(t, 1, h.NumStages())
	assert.Equal(t, 0, h.ExitCode(0))
}

func TestSpawnIOIn(t *testing.T) {
	h, stdin, err := Command("wc", "-l").NoEcho().SpawnIOIn()
	require.NoError(t, err)
	require.NotNil(t, stdin)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer stdin.Close()
		_, _ = io.WriteString(stdin, "line1\nline2\nline3\n")
	}()
	<-done

	// wc writes its count to the inherited stdout; only the status
	// matters here.
	require.NoError(t, h.Wait())
	assert.Equal(t, 0, h.ExitCode(0))
}

func TestSpawnIOOut(t *testing.T) {
	h, stdout, err := Command("seq", "1", "3").NoEcho().SpawnIOOut()
	require.NoError(t, err)
	require.NotNil(t, stdout)

	out, err := io.ReadAll(stdout)
	require.NoError(t, err)
	require.NoError(t, stdout.Close())
	require.NoError(t, h.Wait())
	assert.Equal(t, "1\n2\n3\n", string(out))
}

func TestSpawnIOErr(t *testing.T) {
	h, stderr, err := Command("sh", "-c", "echo warning >&2").NoEcho().SpawnIOErr()
	require.NoError(t, err)
	require.NotNil(t, stderr)

	out, err := io.ReadAll(stderr)
	require.NoError(t, err)
	require.NoError(t, stderr.Close())
	require.NoError(t, h.Wait())
	assert.Equal(t, "warning\n", string(out))
}

func TestSpawnIOInOut(t *testing.T) {
	h, stdin, stdout, err := Command("tr", "a-z", "A-Z").NoEcho().SpawnIOInOut()
	require.NoError(t, err)

	go func() {
		defer stdin.Close()
		_, _ = io.WriteString(stdin, "hello interactive world")
	}()

	out, err := io.ReadAll(stdout)
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	assert.Equal(t, "HELLO INTERACTIVE WORLD", string(out))
}

func TestSpawnIOInErr(t *testing.T) {
	h, stdin, stderr, err := Command("sh", "-c", "cat >/dev/null; echo done >&2").
		NoEcho().
		SpawnIOInErr()
	require.NoError(t, err)

	go func() {
		defer stdin.Close()
		_, _ = io.WriteString(stdin, "swallowed\n")
	}()

	out, err := io.ReadAll(stderr)
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	assert.Equal(t, "done\n", string(out))
}

func TestSpawnIOOutErr(t *testing.T) {
	h, stdout, stderr, err := Command("sh", "-c", "echo success; echo warning >&2").
		NoEcho().
		SpawnIOOutErr()
	require.NoError(t, err)

	outCh := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(stdout)
		outCh <- string(b)
	}()
	errOut, err := io.ReadAll(stderr)
	require.NoError(t, err)

	require.NoError(t, h.Wait())
	assert.Equal(t, "success\n", <-outCh)
	assert.Equal(t, "warning\n", string(errOut))
}

func TestSpawnIOAll(t *testing.T) {
	spawn, err := Command("grep", "item").NoEcho().SpawnIOAll()
	require.NoError(t, err)
	require.NotNil(t, spawn.Stdin)
	require.NotNil(t, spawn.Stdout)
	require.NotNil(t, spawn.Stderr)

	go func() {
		defer spawn.Stdin.Close()
		_, _ = io.WriteString(spawn.Stdin, "item1\nother\nitem2\n")
	}()

	outCh := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(spawn.Stdout)
		outCh <- string(b)
	}()
	errOut, err := io.ReadAll(spawn.Stderr)
	require.NoError(t, err)

	require.NoError(t, spawn.Handle.Wait())
	assert.Equal(t, "item1\nitem2\n", <-outCh)
	assert.Empty(t, string(errOut))
}

func TestSpawnPipelineWithIO(t *testing.T) {
	h, stdin, stdout, err := Command("sort").
		Pipe(Command("head", "-2")).
		NoEcho().
		SpawnIOInOut()
	require.NoError(t, err)

	go func() {
		defer stdin.Close()
		_, _ = io.WriteString(stdin, "zebra\napple\nbanana\ncherry\n")
	}()

	out, err := io.ReadAll(stdout)
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	assert.Equal(t, "apple\nbanana\n", string(out))
}

func TestSpawnStdinOverridesInputSource(t *testing.T) {
	// Claiming stdin as an endpoint wins over a configured input source.
	h, stdin, stdout, err := Command("cat").
		Input("ignored").
		NoEcho().
		SpawnIOInOut()
	require.NoError(t, err)

	go func() {
		defer stdin.Close()
		_, _ = io.WriteString(stdin, "from endpoint")
	}()

	out, err := io.ReadAll(stdout)
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	assert.Equal(t, "from endpoint", string(out))
}

func TestWaitIsIdempotent(t *testing.T) {
	err := Command("sh", "-c", "exit 7").NoEcho().Run()
	require.Error(t, err)

	h, herr := Command("sh", "-c", "exit 7").NoEcho().Spawn()
	require.NoError(t, herr)

	first := h.Wait()
	second := h.Wait()
	require.Error(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 7, h.ExitCode(0))
}

func TestHandleExitCodeAfterSignal(t *testing.T) {
	h, stdout, err := Command("yes").NoEcho().SpawnIOOut()
	require.NoError(t, err)

	// Closing the read end breaks the pipe; yes dies from SIGPIPE.
	buf := make([]byte, 1024)
	_, _ = stdout.Read(buf)
	require.NoError(t, stdout.Close())

	err = h.Wait()
	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, -1, exitErr.Code)
}
