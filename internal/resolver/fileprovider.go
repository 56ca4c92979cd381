package resolver

import (
	"os"
	"path/filepath"
)

// FileProvider is the resolver's sole I/O collaborator: given a module's
// logical path (e.g. "foo" from `mod foo`), it returns that module's source
// text, or reports it was not found. The resolver never touches the
// filesystem directly, so embeddings without a filesystem (the browser
// playground) can supply a provider that reports every module as missing.
type FileProvider interface {
	Load(logicalPath string) (source string, ok bool)
}

// OSFileProvider resolves `mod foo` against a root directory, trying
// "foo.rela" and "foo/mod.rela" in that order, as spec.md §4.3 requires.
type OSFileProvider struct {
	Root string
}

func (p OSFileProvider) Load(logicalPath string) (string, bool) {
	candidates := []string{
		filepath.Join(p.Root, logicalPath+".rela"),
		filepath.Join(p.Root, logicalPath, "mod.rela"),
	}
	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}

// StubFileProvider reports every module as missing. Used by embeddings
// with no filesystem access (the browser playground's core instance).
type StubFileProvider struct{}

func (StubFileProvider) Load(string) (string, bool) { return "", false }
