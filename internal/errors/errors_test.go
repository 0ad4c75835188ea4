// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package errors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains []string
	}{
		{
			name:     "unsupported format",
			err:      &UnsupportedFormatError{Direction: "input", Token: "xml", Accepted: []string{"markdown", "ast-json"}},
			sentinel: ErrUnsupportedFormat,
			contains: []string{`"xml"`, "markdown, ast-json", "input"},
		},
		{
			name:     "invalid option",
			err:      &InvalidOptionError{Option: "table-style", Value: "fancy", Accepted: []string{"tabular", "booktabs"}},
			sentinel: ErrInvalidOption,
			contains: []string{"table-style", `"fancy"`, "tabular, booktabs"},
		},
		{
			name:     "decode with path",
			err:      &DecodeError{Format: "markdown", Path: "notes.md", Err: cause},
			sentinel: ErrDecode,
			contains: []string{"notes.md", "boom"},
		},
		{
			name:     "io",
			err:      &IOError{Path: "a.md", Step: StepRename, Err: fs.ErrPermission},
			sentinel: ErrIO,
			contains: []string{"rename", "a.md"},
		},
		{
			name:     "internal",
			err:      &InternalError{Op: "encode ast-json", Err: cause},
			sentinel: ErrInternal,
			contains: []string{"encode ast-json", "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			for _, s := range tt.contains {
				assert.Contains(t, tt.err.Error(), s)
			}
		})
	}
}

func TestIOErrorUnwrapsCause(t *testing.T) {
	err := &IOError{Path: "a.md", Step: StepRead, Err: fs.ErrNotExist}
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, ErrDecode)
}
