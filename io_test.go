package scripty

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTrip(t *testing.T) {
	// NUL bytes and invalid UTF-8 sequences must survive untouched.
	data := []byte{
		0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0xFD, 0xFC,
		0x80, 0x81, 0x82, 0x83,
		'H', 'e', 'l', 'l', 'o',
	}

	out, err := Command("cat").InputBytes(data).NoEcho().OutputBytes()
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestBinaryRoundTripThroughPipeline(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x00, 0xFF, 'x'}

	out, err := Command("cat").
		Pipe(Command("cat")).
		InputBytes(data).
		NoEcho().
		OutputBytes()
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestOutputLossyDecode(t *testing.T) {
	data := []byte{0xFF, 0xFE, 'H', 'e', 'l', 'l', 'o'}

	out, err := Command("cat").InputBytes(data).NoEcho().Output()
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.True(t, strings.Contains(out, "�"))
}

func TestInputReader(t *testing.T) {
	out, err := Command("cat").
		InputReader(strings.NewReader("hello from reader")).
		NoEcho().
		Output()
	require.NoError(t, err)
	assert.Equal(t, "hello from reader", out)
}

func TestInputLastCallWins(t *testing.T) {
	out, err := Command("cat").
		Input("first").
		InputBytes([]byte("second")).
		Input("third").
		NoEcho().
		Output()
	require.NoError(t, err)
	assert.Equal(t, "third", out)
}

func TestStreamTo(t *testing.T) {
	var buf bytes.Buffer
	err := Command("printf", "streamed").NoEcho().StreamTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "streamed", buf.String())
}

func TestRunWithIOSort(t *testing.T) {
	var buf bytes.Buffer
	err := Command("sort").
		NoEcho().
		RunWithIO(strings.NewReader("zebra\napple\nbanana\ncherry\n"), &buf)
	require.NoError(t, err)
	assert.Equal(t, "apple\nbanana\ncherry\nzebra\n", buf.String())
}

func TestRunWithIOPipeline(t *testing.T) {
	var buf bytes.Buffer
	err := Command("sort").
		Pipe(Command("head", "-1")).
		NoEcho().
		RunWithIO(strings.NewReader("third\nfirst\nsecond\n"), &buf)
	require.NoError(t, err)
	assert.Equal(t, "first\n", buf.String())
}

// repeatReader produces an endless stream of one byte. Wrapped in an
// io.LimitReader it generates large inputs without allocating them.
type repeatReader byte

func (r repeatReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}

func TestLargeInputStreams(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large input test in short mode")
	}

	// 10 MB through a 3-stage pipeline. The input is generated, the
	// terminal output is a byte count, so nothing forces full buffering.
	const size = 10 << 20
	out, err := Command("cat").
		Pipe(Command("cat")).
		Pipe(Command("wc", "-c")).
		InputReader(io.LimitReader(repeatReader('x'), size)).
		NoEcho().
		Output()
	require.NoError(t, err)
	assert.Equal(t, "10485760", strings.TrimSpace(out))
}

// errReader fails on the first read, standing in for an unreadable input
// source such as a missing file.
type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("input source unavailable")
}

func TestFailingInputReader(t *testing.T) {
	err := Command("cat").
		Pipe(Command("cat")).
		InputReader(errReader{}).
		NoEcho().
		Run()
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, 0, ioErr.Stage)
	assert.Equal(t, "stdin", ioErr.Stream)
}

func TestEarlyConsumerExitIsNotAFailure(t *testing.T) {
	// head closes its stdin after two lines; the feed sees EPIPE, which
	// is normal pipeline behavior rather than an error.
	out, err := Command("head", "-2").
		InputReader(io.LimitReader(repeatReader('\n'), 1<<20)).
		NoEcho().
		Output()
	require.NoError(t, err)
	assert.Equal(t, "\n\n", out)
}
