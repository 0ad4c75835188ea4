// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/internal/inplace"
	"github.com/pdiddy/markdown-tool/internal/options"
)

func (a *app) formatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [flags] <file>...",
		Short: "Rewrite markdown files in place to their canonical form",
		Long: `format rewrites each markdown file to canonical markdown. Files are
processed in order and independently: a file that cannot be read or parsed
is reported and the rest are still formatted. Each file is replaced
atomically through a temporary sibling file.

Arguments that are not existing files are expanded as glob patterns
(** matches across directories).

With --dry-run nothing is written; the command lists the files that would
change and exits with status 1 if there are any. "All files are already
formatted" is printed only when every argument was read, parsed and found
canonical: a file that fails or a pattern that matches nothing is
reported on stderr and suppresses that line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := newOptionSource(cmd, a.v, sectionMarkdown).textOptions()
			if err != nil {
				return err
			}
			cfg, err := options.ComposeText(opts)
			if err != nil {
				return err
			}
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return fmt.Errorf("failed to get dry-run flag: %w", err)
			}

			f := inplace.New(a.fs, a.engine, cfg, cmd.OutOrStdout(), a.log)
			paths, unmatched := expandPaths(a.fs, args)
			var summary inplace.Summary
			if len(paths) > 0 {
				if summary, err = f.FormatFiles(paths, dryRun); err != nil {
					return err
				}
			}
			for _, pattern := range unmatched {
				f.Fail(&summary, pattern, &mderrors.IOError{
					Path: pattern,
					Step: mderrors.StepGlob,
					Err:  fmt.Errorf("pattern matched no files"),
				})
			}

			f.Finish(summary, dryRun)

			a.log.Debug("format finished",
				"formatted", summary.Formatted(),
				"needs_formatting", summary.NeedsFormatting(),
				"failed", summary.Failed())
			// Per-file failures are reported but do not change the exit
			// status.
			if dryRun && summary.FormattingRequired() {
				return mderrors.ErrFormattingRequired
			}
			return nil
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "report files that need formatting without writing them")
	addMarkdownFlags(cmd.Flags())
	return cmd
}

// expandPaths keeps arguments that exist and expands the others as glob
// patterns on fs. Patterns that match nothing are returned separately;
// plain names that do not exist are kept so the formatter reports them.
func expandPaths(fs afero.Fs, args []string) (paths, unmatched []string) {
	for _, arg := range args {
		if ok, _ := afero.Exists(fs, arg); ok || !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		matches, err := glob(fs, arg)
		if err != nil || len(matches) == 0 {
			unmatched = append(unmatched, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, unmatched
}

// glob matches pattern against the files of fs. io/fs paths are relative,
// so the literal directory prefix of the pattern becomes the root of the
// searched filesystem and is joined back onto every match.
func glob(fs afero.Fs, pattern string) ([]string, error) {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(pattern)))
	root := fs
	if base != "." {
		root = afero.NewBasePathFs(fs, filepath.FromSlash(base))
	}
	matches, err := doublestar.Glob(afero.NewIOFS(root), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(path.Join(base, m))
	}
	return matches, nil
}
