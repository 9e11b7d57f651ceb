// Package echo renders shell-like status lines for commands and file
// operations. It is the single sink both the scripty root package and the
// fs package log through.
package echo

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Sink writes rendered operation lines to a status stream.
// A nil Sink discards everything, so callers never need to guard calls.
type Sink struct {
	logger zerolog.Logger
}

// New creates a Sink writing to out. Colors follow zerolog's console
// writer; pass noColor to force plain output.
func New(out io.Writer, noColor bool) *Sink {
	cw := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		PartsOrder: []string{zerolog.MessageFieldName},
	}
	return &Sink{logger: zerolog.New(cw)}
}

// Linef writes one formatted status line.
func (s *Sink) Linef(format string, args ...any) {
	if s == nil {
		return
	}
	s.logger.Info().Msg(fmt.Sprintf(format, args...))
}

// Render renders a program invocation as a shell-like line.
func Render(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, Quote(program))
	for _, a := range args {
		parts = append(parts, Quote(a))
	}
	return strings.Join(parts, " ")
}

// Quote quotes a single argument the way a shell user would have to.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$&|;<>()*?[]#~`") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}
