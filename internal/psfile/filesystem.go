package psfile

import (
	"embed"
)

//go:embed lib/init.ps lib/misc.ps lib/error.ps
var stdlibFS embed.FS

// StandardFiles are the bundled PostScript standard-library files loaded
// at interpreter start (spec.md §4.6): init.ps, misc.ps, error.ps.
var StandardFiles = []string{"init.ps", "misc.ps", "error.ps"}

// FileSystem is a string->content map (spec.md §4.6): every named file
// other than `%stdin`/`%stdout` must be registered here before `run`/`file`
// can open it.
type FileSystem struct {
	files map[string][]byte
}

// NewFileSystem creates a FileSystem pre-populated with the bundled
// standard-library files.
func NewFileSystem() *FileSystem {
	fs := &FileSystem{files: make(map[string][]byte)}
	for _, name := range StandardFiles {
		content, err := stdlibFS.ReadFile("lib/" + name)
		if err != nil {
			// The embedded files are part of the build; a missing one is a
			// packaging bug, not a runtime condition a PostScript program
			// could ever observe.
			panic("psfile: missing bundled standard library file " + name)
		}
		fs.files[name] = content
	}
	return fs
}

// AddFile registers or overwrites a named file's content.
func (fs *FileSystem) AddFile(name string, content []byte) {
	fs.files[name] = append([]byte(nil), content...)
}

// GetFile returns a named file's content, ok=false if unregistered.
func (fs *FileSystem) GetFile(name string) ([]byte, bool) {
	c, ok := fs.files[name]
	return c, ok
}

// Exists reports whether name is registered.
func (fs *FileSystem) Exists(name string) bool {
	_, ok := fs.files[name]
	return ok
}
