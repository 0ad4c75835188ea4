// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"/docs/a.md", "/docs/nested/b.md", "/docs/notes.txt", "/top.md", "/weird[1].md"} {
		require.NoError(t, afero.WriteFile(fs, filepath.FromSlash(name), []byte("x\n"), 0o644))
	}

	tests := []struct {
		name          string
		args          []string
		wantPaths     []string
		wantUnmatched []string
	}{
		{
			name:      "recursive pattern",
			args:      []string{"/docs/**/*.md"},
			wantPaths: []string{"/docs/a.md", "/docs/nested/b.md"},
		},
		{
			name:      "pattern at the root",
			args:      []string{"/*.md"},
			wantPaths: []string{"/top.md", "/weird[1].md"},
		},
		{
			name:      "existing name with meta characters is kept",
			args:      []string{"/weird[1].md"},
			wantPaths: []string{"/weird[1].md"},
		},
		{
			name:      "plain missing name is kept for the formatter",
			args:      []string{"/docs/missing.md"},
			wantPaths: []string{"/docs/missing.md"},
		},
		{
			name:          "pattern without matches",
			args:          []string{"/docs/*.rst", "/nowhere/**/*.md"},
			wantUnmatched: []string{"/docs/*.rst", "/nowhere/**/*.md"},
		},
		{
			name:          "argument order is kept",
			args:          []string{"/top.md", "/docs/*.md", "/docs/*.rst", "/docs/notes.txt"},
			wantPaths:     []string{"/top.md", "/docs/a.md", "/docs/notes.txt"},
			wantUnmatched: []string{"/docs/*.rst"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args []string
			for _, a := range tt.args {
				args = append(args, filepath.FromSlash(a))
			}
			paths, unmatched := expandPaths(fs, args)
			assert.Equal(t, fromSlash(tt.wantPaths), paths)
			assert.Equal(t, fromSlash(tt.wantUnmatched), unmatched)
		})
	}
}

// The glob must see the same filesystem the formatter writes to, not the
// host's.
func TestExpandPaths_UsesGivenFs(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "real.md", "x\n")

	paths, unmatched := expandPaths(afero.NewMemMapFs(), []string{filepath.Join(dir, "*.md")})
	assert.Empty(t, paths)
	assert.Equal(t, []string{filepath.Join(dir, "*.md")}, unmatched)
}

func fromSlash(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.FromSlash(n)
	}
	return out
}
