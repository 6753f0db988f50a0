// Package iosource resolves a dcmtool input argument — stdin, a local glob,
// or an object-store URL — into a concrete list of files to read, per
// spec.md §6's CLI collaborator contract.
package iosource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ErrObjectStoreUnsupported is returned for a recognized but unimplemented
// object-store URL scheme, per spec.md §6 ("these route inputs from ...
// object-store URLs"), which names the schemes without requiring their
// transports to be built in this module.
var ErrObjectStoreUnsupported = errors.New("iosource: object-store input not implemented in this build")

var objectStoreSchemes = []string{"s3://", "gs://", "az://", "file://"}

// Stdin is the sentinel path argument that means "read from standard input".
const Stdin = "-"

// Resolve expands a single CLI input argument into zero or more local file
// paths. A bare "-" is left as Stdin and must be handled by the caller
// directly, since it names a stream, not a file.
func Resolve(arg string) ([]string, error) {
	if arg == Stdin {
		return []string{Stdin}, nil
	}

	for _, scheme := range objectStoreSchemes {
		if strings.HasPrefix(arg, scheme) {
			return nil, fmt.Errorf("%w: %s", ErrObjectStoreUnsupported, arg)
		}
	}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return []string{arg}, nil
	}

	g, err := glob.Compile(arg, '/')
	if err != nil {
		return nil, fmt.Errorf("iosource: invalid glob %q: %w", arg, err)
	}

	dir := globBaseDir(arg)
	var matches []string
	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if g.Match(path) {
			matches = append(matches, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("iosource: walking %q: %w", dir, walkErr)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("iosource: no files matched %q", arg)
	}
	return matches, nil
}

// globBaseDir finds the longest path prefix of pattern that contains no
// glob metacharacters, so Walk only descends the subtree the glob can
// actually match rather than the whole filesystem.
func globBaseDir(pattern string) string {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	var base []string
	for _, p := range parts {
		if strings.ContainsAny(p, "*?[{") {
			break
		}
		base = append(base, p)
	}
	if len(base) == 0 {
		return "."
	}
	dir := strings.Join(base, "/")
	if dir == "" {
		return "/"
	}
	return dir
}
