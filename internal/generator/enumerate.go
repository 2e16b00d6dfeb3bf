package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

const globMeta = "*?[{\\"

// enumerate returns the regular files in fsys whose slash separated path
// matches pattern, in lexical order. Only the subtree under the pattern's
// literal directory prefix is walked; a missing prefix yields no files.
func enumerate(fsys fs.FS, pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(path.Clean(strings.TrimSpace(pattern)), "./")
	if pattern == "" || pattern == "." {
		return nil, errors.New("generator: empty source pattern")
	}

	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("generator: compile source pattern %q: %w", pattern, err)
	}

	root := literalPrefix(pattern)
	if root == pattern {
		// No meta characters: a single file lookup.
		info, err := fs.Stat(fsys, pattern)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("generator: stat %s: %w", pattern, err)
		}
		if info.IsDir() {
			return nil, nil
		}
		return []string{pattern}, nil
	}

	var matches []string
	err = fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if name == root && errors.Is(walkErr, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if matcher.Match(name) {
			matches = append(matches, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generator: enumerate %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// literalPrefix returns the directory part of pattern that holds no glob
// meta characters, "." when the first segment already does, or the pattern
// itself when it has none.
func literalPrefix(pattern string) string {
	if !strings.ContainsAny(pattern, globMeta) {
		return pattern
	}
	segments := strings.Split(pattern, "/")
	literal := make([]string, 0, len(segments))
	for _, segment := range segments {
		if strings.ContainsAny(segment, globMeta) {
			break
		}
		literal = append(literal, segment)
	}
	if len(literal) == 0 {
		return "."
	}
	return path.Join(literal...)
}
