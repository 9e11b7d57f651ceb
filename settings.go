package scripty

import (
	"io"
	"os"
	"sync"

	"github.com/kelseyhightower/envconfig"

	"github.com/MozkTaberenai/scripty/internal/echo"
)

// Settings holds process-wide defaults for command echoing. They are
// resolved once from the environment and threaded through the builder;
// nothing in the package reads the environment after that point.
type Settings struct {
	// NoEcho suppresses command echoing globally. Set NO_ECHO=1 (or any
	// value strconv.ParseBool accepts as true) to disable echoing for the
	// whole process. Individual commands can still opt out with NoEcho().
	NoEcho bool `envconfig:"NO_ECHO" default:"false"`

	// NoColor disables colored status lines. Honors the conventional
	// NO_COLOR environment variable.
	NoColor bool `envconfig:"NO_COLOR" default:"false"`
}

// LoadSettings resolves Settings from environment variables.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettingsOrDefault resolves Settings from the environment, falling
// back to zero-value defaults when a variable cannot be parsed.
func LoadSettingsOrDefault() Settings {
	s, err := LoadSettings()
	if err != nil {
		return Settings{}
	}
	return s
}

// Runner creates commands bound to a fixed set of defaults: echo settings,
// a status stream, and optional environment/directory overlays applied to
// every command it builds. Per-command settings always override runner
// defaults.
type Runner struct {
	settings Settings
	echoOut  io.Writer
	sink     *echo.Sink
	env      map[string]string
	dir      string
}

// Option configures a Runner at construction time.
type Option func(*Runner)

// WithSettings replaces the environment-resolved Settings.
func WithSettings(s Settings) Option {
	return func(r *Runner) {
		r.settings = s
	}
}

// WithNoEcho disables command echoing for every command the Runner builds.
func WithNoEcho() Option {
	return func(r *Runner) {
		r.settings.NoEcho = true
	}
}

// WithEchoWriter redirects the status stream. Defaults to os.Stderr.
func WithEchoWriter(w io.Writer) Option {
	return func(r *Runner) {
		r.echoOut = w
	}
}

// WithEnv overlays environment variables on every command the Runner
// builds. Per-command Env calls override these.
func WithEnv(env map[string]string) Option {
	return func(r *Runner) {
		for k, v := range env {
			r.env[k] = v
		}
	}
}

// WithDir sets a default working directory for every command the Runner
// builds. Per-command Dir calls override it.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// New creates a Runner. Settings default to the values resolved from the
// environment (NO_ECHO, NO_COLOR); options override them.
func New(opts ...Option) *Runner {
	r := &Runner{
		settings: LoadSettingsOrDefault(),
		echoOut:  os.Stderr,
		env:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sink = echo.New(r.echoOut, r.settings.NoColor)
	return r
}

// Command creates a command descriptor bound to the Runner's defaults.
// Nothing is spawned until one of the execution methods is called.
func (r *Runner) Command(program string, args ...string) *Cmd {
	return &Cmd{
		runner:  r,
		program: program,
		args:    append([]string(nil), args...),
	}
}

var (
	defaultRunnerOnce sync.Once
	defaultRunnerInst *Runner
)

// defaultRunner backs the package-level Command constructor. It is built
// lazily so tests can set NO_ECHO before the first command is created.
func defaultRunner() *Runner {
	defaultRunnerOnce.Do(func() {
		defaultRunnerInst = New()
	})
	return defaultRunnerInst
}

// Command creates a command descriptor using process-wide defaults.
// It is the Go spelling of scripty's cmd! constructor:
//
//	scripty.Command("echo", "hello world").Run()
func Command(program string, args ...string) *Cmd {
	return defaultRunner().Command(program, args...)
}
