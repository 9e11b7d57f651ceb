// Package fs wraps common filesystem operations with the same automatic
// echoing scripty applies to commands, so scripts show every file they
// touch. It is backed by go-billy: New returns a disk-backed filesystem
// and NewMemory an in-memory one, which keeps tests hermetic.
//
//	fs.WriteFile("config.txt", []byte("debug=true\n"))
//	content, err := fs.ReadToString("config.txt")
//	fs.Copy("config.txt", "backup/config.txt")
//	fs.RemoveAll("backup")
//
// Package-level functions operate on a shared local filesystem whose echo
// behavior follows the NO_ECHO and NO_COLOR environment variables, the
// same way the command API resolves its defaults.
package fs
