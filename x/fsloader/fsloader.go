// Package fsloader is a filesystem-backed waymark.ModuleLoader,
// following the directory convention in §6 of the specification:
// commandName.ext is a leaf, commandName/ is a pass-through directory,
// [name].ext is a single-token param, [...name].ext is a rest param.
//
// Go has no runtime equivalent of dynamically importing a source file
// discovered on disk, so this loader splits the two halves of the
// teacher's contract: directory shape (IsDir/Entries) is read live from
// an fs.FS, while the module a given path resolves to is looked up in a
// caller-supplied registry keyed by the same path (extension stripped).
// A command author still gets one file per command on disk — the file's
// contents are whatever they like (a doc comment, a stub, generated
// boilerplate) — and registers its behavior once, in Go, at the matching
// key.
package fsloader

import (
	"io/fs"
	"path"
	"strings"

	"github.com/waymark-cli/waymark"
)

// Loader implements waymark.ModuleLoader over an fs.FS for directory
// shape and a static registry for module behavior.
type Loader struct {
	FS         fs.FS
	Modules    map[string]*waymark.CommandModule
	Extensions []string
}

// New builds a Loader rooted at root (typically os.DirFS(dir)).
// Extensions defaults to {".go", ".yaml", ".yml"} if empty; a leaf or
// param file must carry one of them to be recognized as a command.
func New(root fs.FS, modules map[string]*waymark.CommandModule, extensions ...string) *Loader {
	if len(extensions) == 0 {
		extensions = []string{".go", ".yaml", ".yml"}
	}
	return &Loader{FS: root, Modules: modules, Extensions: extensions}
}

func (l *Loader) hasExtension(name string) bool {
	for _, ext := range l.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// stripExt removes any of l.Extensions from name, leaving the registry
// key a caller would use.
func (l *Loader) stripExt(name string) string {
	for _, ext := range l.Extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// Load implements waymark.ModuleLoader. path is an extension-less
// command path (e.g. "commands/greet/[name]"); Load searches the
// directory for a file matching path plus one of l.Extensions, and if
// found, returns the registered module for that bare path.
func (l *Loader) Load(p string) (*waymark.CommandModule, bool, error) {
	dir := path.Dir(p)
	base := path.Base(p)

	entries, err := fs.ReadDir(l.FS, dir)
	if err != nil {
		return nil, false, nil
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if l.stripExt(e.Name()) != base {
			continue
		}
		if !l.hasExtension(e.Name()) {
			continue
		}
		mod, ok := l.Modules[p]
		if !ok {
			return nil, true, waymark.NewModuleError(p, errNoRegisteredModule(p))
		}
		return mod, true, nil
	}

	return nil, false, nil
}

// IsDir implements waymark.ModuleLoader.
func (l *Loader) IsDir(p string) bool {
	info, err := fs.Stat(l.FS, normalize(p))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Entries implements waymark.ModuleLoader.
func (l *Loader) Entries(dir string) ([]string, error) {
	entries, err := fs.ReadDir(l.FS, normalize(dir))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() {
			name = l.stripExt(name)
		}
		out = append(out, name)
	}
	return out, nil
}

func normalize(p string) string {
	if p == "" {
		return "."
	}
	return p
}

type moduleNotRegisteredError struct{ path string }

func (e *moduleNotRegisteredError) Error() string {
	return "no module registered for " + e.path
}

func errNoRegisteredModule(p string) error {
	return &moduleNotRegisteredError{path: p}
}
