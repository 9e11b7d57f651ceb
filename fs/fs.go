package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/MozkTaberenai/scripty"
	"github.com/MozkTaberenai/scripty/internal/echo"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	ErrNotExist = iofs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	ErrExist = iofs.ErrExist

	// ErrUnsupported is returned when the backing filesystem cannot
	// perform the operation, e.g. Chmod on the in-memory backend.
	ErrUnsupported = errors.New("operation not supported")
)

// FS is a filesystem whose operations are echoed to a status stream.
type FS struct {
	bfs   billy.Filesystem
	sink  *echo.Sink
	local bool
}

type config struct {
	quiet   bool
	noColor bool
	echoOut io.Writer
}

// Option configures an FS at construction time.
type Option func(*config)

// WithQuiet disables operation echoing.
func WithQuiet() Option {
	return func(c *config) {
		c.quiet = true
	}
}

// WithNoColor disables colored status lines.
func WithNoColor() Option {
	return func(c *config) {
		c.noColor = true
	}
}

// WithEchoWriter redirects the status stream. Defaults to os.Stderr.
func WithEchoWriter(w io.Writer) Option {
	return func(c *config) {
		c.echoOut = w
	}
}

func newFS(bfs billy.Filesystem, local bool, opts ...Option) *FS {
	cfg := config{echoOut: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}
	f := &FS{bfs: bfs, local: local}
	if !cfg.quiet {
		f.sink = echo.New(cfg.echoOut, cfg.noColor)
	}
	return f
}

// New creates a disk-backed FS rooted at the filesystem root. Relative
// paths resolve against the caller's current directory, matching the os
// package.
func New(opts ...Option) *FS {
	return newFS(osfs.New("/"), true, opts...)
}

// NewMemory creates an empty in-memory FS.
func NewMemory(opts ...Option) *FS {
	return newFS(memfs.New(), false, opts...)
}

// path resolves a caller path for the backing filesystem. The disk
// backend is rooted at "/", so relative paths are made absolute first.
func (f *FS) path(name string) string {
	if f.local && !filepath.IsAbs(name) {
		if abs, err := filepath.Abs(name); err == nil {
			return abs
		}
	}
	return filepath.Clean(name)
}

func (f *FS) echof(format string, args ...any) {
	f.sink.Linef(format, args...)
}

// ReadFile reads the named file and returns its contents.
func (f *FS) ReadFile(name string) ([]byte, error) {
	f.echof("read %s", echo.Quote(name))
	file, err := f.bfs.Open(f.path(name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

// ReadToString reads the named file and returns its contents as a string.
func (f *FS) ReadToString(name string) (string, error) {
	b, err := f.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFile writes data to the named file, creating it if necessary and
// truncating it otherwise.
func (f *FS) WriteFile(name string, data []byte) error {
	f.echof("write %s (%d bytes)", echo.Quote(name), len(data))
	file, err := f.bfs.OpenFile(f.path(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()
	_, err = file.Write(data)
	return err
}

// Copy copies src to dst, creating or truncating dst. File contents are
// streamed, not buffered.
func (f *FS) Copy(src, dst string) error {
	f.echof("cp %s %s", echo.Quote(src), echo.Quote(dst))
	in, err := f.bfs.Open(f.path(src))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := f.bfs.Create(f.path(dst))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Mkdir creates a single directory. Unlike MkdirAll it fails when the
// parent does not exist or the directory already exists.
func (f *FS) Mkdir(name string) error {
	f.echof("mkdir %s", echo.Quote(name))
	name = f.path(name)
	if _, err := f.bfs.Stat(name); err == nil {
		return ErrExist
	}
	parent := filepath.Dir(name)
	if parent != "." && parent != "/" {
		if _, err := f.bfs.Stat(parent); err != nil {
			return err
		}
	}
	return f.bfs.MkdirAll(name, 0o777)
}

// MkdirAll creates a directory along with any missing parents.
func (f *FS) MkdirAll(name string) error {
	f.echof("mkdir -p %s", echo.Quote(name))
	return f.bfs.MkdirAll(f.path(name), 0o777)
}

// ReadDir returns the entries of the named directory sorted by filename.
func (f *FS) ReadDir(name string) ([]iofs.FileInfo, error) {
	f.echof("ls %s", echo.Quote(name))
	infos, err := f.bfs.ReadDir(f.path(name))
	if err != nil {
		return nil, err
	}
	out := make([]iofs.FileInfo, len(infos))
	copy(out, infos)
	return out, nil
}

// Remove removes the named file or empty directory.
func (f *FS) Remove(name string) error {
	f.echof("rm %s", echo.Quote(name))
	return f.bfs.Remove(f.path(name))
}

// RemoveAll removes name and any children it contains. Removing a path
// that does not exist is not an error.
func (f *FS) RemoveAll(name string) error {
	f.echof("rm -r %s", echo.Quote(name))
	return f.removeAll(f.path(name))
}

// removeAll recurses without echoing each entry. Billy has no RemoveAll
// of its own.
func (f *FS) removeAll(name string) error {
	info, err := f.bfs.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return f.bfs.Remove(name)
	}
	entries, err := f.bfs.ReadDir(name)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := f.removeAll(filepath.Join(name, entry.Name())); err != nil {
			return err
		}
	}
	return f.bfs.Remove(name)
}

// Rename renames (moves) oldname to newname.
func (f *FS) Rename(oldname, newname string) error {
	f.echof("mv %s %s", echo.Quote(oldname), echo.Quote(newname))
	return f.bfs.Rename(f.path(oldname), f.path(newname))
}

// Stat returns metadata for the named file.
func (f *FS) Stat(name string) (iofs.FileInfo, error) {
	return f.bfs.Stat(f.path(name))
}

// Exists reports whether the named file or directory exists. A false
// result with a non-nil error means existence could not be determined.
func (f *FS) Exists(name string) (bool, error) {
	_, err := f.bfs.Stat(f.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Chmod changes the permissions of the named file. Only the disk-backed
// filesystem supports it; the in-memory backend returns ErrUnsupported.
func (f *FS) Chmod(name string, mode iofs.FileMode) error {
	f.echof("chmod %o %s", mode.Perm(), echo.Quote(name))
	if !f.local {
		return ErrUnsupported
	}
	return os.Chmod(f.path(name), mode)
}

var (
	defaultOnce sync.Once
	defaultFS   *FS
)

// Default returns the shared local filesystem used by the package-level
// functions. Its echo behavior follows NO_ECHO and NO_COLOR, resolved
// once on first use.
func Default() *FS {
	defaultOnce.Do(func() {
		settings := scripty.LoadSettingsOrDefault()
		var opts []Option
		if settings.NoEcho {
			opts = append(opts, WithQuiet())
		}
		if settings.NoColor {
			opts = append(opts, WithNoColor())
		}
		defaultFS = New(opts...)
	})
	return defaultFS
}

// Package-level convenience functions on the shared local filesystem.

func ReadFile(name string) ([]byte, error)          { return Default().ReadFile(name) }
func ReadToString(name string) (string, error)      { return Default().ReadToString(name) }
func WriteFile(name string, data []byte) error      { return Default().WriteFile(name, data) }
func Copy(src, dst string) error                    { return Default().Copy(src, dst) }
func Mkdir(name string) error                       { return Default().Mkdir(name) }
func MkdirAll(name string) error                    { return Default().MkdirAll(name) }
func ReadDir(name string) ([]iofs.FileInfo, error)  { return Default().ReadDir(name) }
func Remove(name string) error                      { return Default().Remove(name) }
func RemoveAll(name string) error                   { return Default().RemoveAll(name) }
func Rename(oldname, newname string) error          { return Default().Rename(oldname, newname) }
func Stat(name string) (iofs.FileInfo, error)       { return Default().Stat(name) }
func Exists(name string) (bool, error)              { return Default().Exists(name) }
func Chmod(name string, mode iofs.FileMode) error   { return Default().Chmod(name, mode) }
