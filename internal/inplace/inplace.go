// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inplace rewrites markdown files to their canonical form. Files
// are processed one at a time in argument order; a failure on one file is
// reported and never stops the others. Replacement is atomic: the new
// content is written to a sibling temporary file that is then renamed onto
// the original.
package inplace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/pdiddy/markdown-tool/internal/engine"
	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/internal/logger"
	"github.com/pdiddy/markdown-tool/pkg/types"
)

// tmpSuffix is appended to a file name to form its temporary sibling.
const tmpSuffix = ".tmp"

// ErrNoFiles is returned when FormatFiles is called without paths.
var ErrNoFiles = errors.New("no files to format")

// Status is the outcome for one file.
type Status string

const (
	StatusUnchanged       Status = "unchanged"
	StatusFormatted       Status = "formatted"
	StatusNeedsFormatting Status = "needs formatting"
	StatusFailed          Status = "failed"
)

// Result records what happened to one path.
type Result struct {
	Path   string
	Status Status
	Err    error
}

// Summary holds the outcome of a FormatFiles run.
type Summary struct {
	Results []Result
}

func (s Summary) count(st Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == st {
			n++
		}
	}
	return n
}

// Formatted returns the number of files rewritten.
func (s Summary) Formatted() int { return s.count(StatusFormatted) }

// NeedsFormatting returns the number of files a dry run found
// non-canonical.
func (s Summary) NeedsFormatting() int { return s.count(StatusNeedsFormatting) }

// Failed returns the number of files that could not be processed.
func (s Summary) Failed() int { return s.count(StatusFailed) }

// FormattingRequired reports whether a dry run found work to do.
func (s Summary) FormattingRequired() bool { return s.NeedsFormatting() > 0 }

// Formatter rewrites files through an afero filesystem.
type Formatter struct {
	fs     afero.Fs
	engine engine.Engine
	config types.TextConfig
	out    io.Writer
	log    logger.Logger
}

// New returns a Formatter that renders with cfg, prints per-file status
// lines to out and logs failures to log. A nil log discards diagnostics.
func New(fs afero.Fs, e engine.Engine, cfg types.TextConfig, out io.Writer, log logger.Logger) *Formatter {
	if log == nil {
		log = logger.Discard()
	}
	if out == nil {
		out = io.Discard
	}
	return &Formatter{fs: fs, engine: e, config: cfg, out: out, log: log}
}

// FormatFiles processes paths in order. With dryRun set no file is
// written; files that would change are reported as needing formatting.
// The returned error is non-nil only when paths is empty; per-file
// failures are recorded in the Summary.
func (f *Formatter) FormatFiles(paths []string, dryRun bool) (Summary, error) {
	var summary Summary
	if len(paths) == 0 {
		return summary, ErrNoFiles
	}

	for _, path := range paths {
		res := f.formatFile(path, dryRun)
		switch res.Status {
		case StatusFormatted:
			fmt.Fprintf(f.out, "Formatted: %s\n", path)
		case StatusNeedsFormatting:
			fmt.Fprintf(f.out, "File needs formatting: %s\n", path)
		case StatusFailed:
			f.log.Error(res.Err.Error(), "path", path)
		case StatusUnchanged:
			f.log.Debug("already formatted", "path", path)
		}
		summary.Results = append(summary.Results, res)
	}
	return summary, nil
}

// Finish prints the closing line of a dry run. "All files are already
// formatted" is printed only when every argument was checked and none
// needs formatting; a run with any failure ends without it.
func (f *Formatter) Finish(summary Summary, dryRun bool) {
	if dryRun && len(summary.Results) > 0 && summary.NeedsFormatting() == 0 && summary.Failed() == 0 {
		fmt.Fprintln(f.out, "All files are already formatted")
	}
}

// Fail records a failure for a path that never reached the formatter, such
// as a glob pattern that matched nothing.
func (f *Formatter) Fail(summary *Summary, path string, err error) {
	f.log.Error(err.Error(), "path", path)
	summary.Results = append(summary.Results, Result{Path: path, Status: StatusFailed, Err: err})
}

func (f *Formatter) formatFile(path string, dryRun bool) Result {
	fail := func(err error) Result {
		return Result{Path: path, Status: StatusFailed, Err: err}
	}

	info, err := f.fs.Stat(path)
	if err != nil {
		return fail(&mderrors.IOError{Path: path, Step: mderrors.StepRead, Err: err})
	}
	if info.IsDir() {
		return fail(&mderrors.IOError{Path: path, Step: mderrors.StepRead, Err: fmt.Errorf("is a directory")})
	}
	original, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return fail(&mderrors.IOError{Path: path, Step: mderrors.StepRead, Err: err})
	}

	doc, err := f.engine.DecodeText(string(original))
	if err != nil {
		return fail(&mderrors.DecodeError{Format: string(types.InputMarkdown), Path: path, Err: err})
	}

	rendered := []byte(f.engine.EncodeText(doc, f.config))
	if bytes.HasSuffix(original, []byte("\n")) && !bytes.HasSuffix(rendered, []byte("\n")) {
		rendered = append(rendered, '\n')
	}

	if bytes.Equal(original, rendered) {
		return Result{Path: path, Status: StatusUnchanged}
	}
	if dryRun {
		return Result{Path: path, Status: StatusNeedsFormatting}
	}
	if err := f.replace(path, rendered, info.Mode().Perm()); err != nil {
		return fail(err)
	}
	return Result{Path: path, Status: StatusFormatted}
}

// replace writes data to path atomically. On any failure the temporary
// file is removed and the original is left untouched.
func (f *Formatter) replace(path string, data []byte, perm os.FileMode) error {
	tmp := path + tmpSuffix
	if err := f.writeTemp(tmp, data, perm); err != nil {
		_ = f.fs.Remove(tmp)
		return &mderrors.IOError{Path: tmp, Step: mderrors.StepWriteTemp, Err: err}
	}
	if err := f.fs.Rename(tmp, path); err != nil {
		_ = f.fs.Remove(tmp)
		return &mderrors.IOError{Path: path, Step: mderrors.StepRename, Err: err}
	}
	return nil
}

func (f *Formatter) writeTemp(tmp string, data []byte, perm os.FileMode) error {
	file, err := f.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	// The process umask may have narrowed perm at creation.
	return f.fs.Chmod(tmp, perm)
}
