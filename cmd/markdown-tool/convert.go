// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pdiddy/markdown-tool/internal/convert"
	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/internal/format"
	"github.com/pdiddy/markdown-tool/internal/options"
	"github.com/pdiddy/markdown-tool/pkg/types"
)

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert-to <output> [flags]",
		Short: "Convert a document read from stdin to another format",
		Long: `convert-to reads a whole document from stdin, decodes it according to
--from and writes it to stdout in the output format named by the
subcommand. Nothing is written to stdout unless the conversion succeeds.

Output formats: ` + strings.Join(format.OutputTokens(), ", ") + `.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("missing output format: supported formats are %s",
					strings.Join(format.OutputTokens(), ", "))
			}
			// Every known output is a subcommand, so anything reaching here
			// is unsupported.
			_, err := format.ParseOutput(args[0])
			if err == nil {
				err = fmt.Errorf("unexpected output %q", args[0])
			}
			return err
		},
	}
	cmd.PersistentFlags().StringP("from", "f", string(types.InputMarkdown),
		"input format: "+strings.Join(format.InputTokens(), ", "))

	cmd.AddCommand(
		a.outputCmd(types.OutputMarkdown, "Canonical markdown", addMarkdownFlags, func(s optionSource) (types.RenderConfig, error) {
			opts, err := s.textOptions()
			if err != nil {
				return nil, err
			}
			return options.ComposeText(opts)
		}),
		a.outputCmd(types.OutputHTML, "HTML fragment", func(fs *pflag.FlagSet) {
			addWidthFlag(fs)
			fs.String("anchor-prefix", "", "prefix for generated anchor ids")
		}, func(s optionSource) (types.RenderConfig, error) {
			opts, err := s.htmlOptions()
			if err != nil {
				return nil, err
			}
			return options.ComposeHTML(opts)
		}),
		a.outputCmd(types.OutputLaTeX, "LaTeX body", func(fs *pflag.FlagSet) {
			addWidthFlag(fs)
			fs.String("table-style", string(types.TableTabular), "table environment: tabular, longtabu, booktabs")
			fs.String("code-style", string(types.CodeVerbatim), "code block environment: verbatim, listings, minted")
		}, func(s optionSource) (types.RenderConfig, error) {
			opts, err := s.latexOptions()
			if err != nil {
				return nil, err
			}
			return options.ComposeLatex(opts)
		}),
		a.outputCmd(types.OutputASTJSON, "Document tree as JSON", nil, structuredConfig(types.OutputASTJSON)),
		a.outputCmd(types.OutputASTYAML, "Document tree as YAML", nil, structuredConfig(types.OutputASTYAML)),
	)
	return cmd
}

// composeFunc builds the render configuration of one output target.
type composeFunc func(optionSource) (types.RenderConfig, error)

func structuredConfig(out types.OutputFormat) composeFunc {
	return func(optionSource) (types.RenderConfig, error) {
		return options.ComposeStructured(out)
	}
}

func sectionFor(out types.OutputFormat) string {
	switch out {
	case types.OutputHTML:
		return sectionHTML
	case types.OutputLaTeX:
		return sectionLatex
	}
	return sectionMarkdown
}

func (a *app) outputCmd(out types.OutputFormat, short string, flags func(*pflag.FlagSet), compose composeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(out),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := compose(newOptionSource(cmd, a.v, sectionFor(out)))
			if err != nil {
				return err
			}
			fromToken, _ := cmd.Flags().GetString("from")
			from, err := format.ParseInput(fromToken)
			if err != nil {
				return err
			}

			a.hintTerminal()
			input, err := io.ReadAll(a.stdin)
			if err != nil {
				return &mderrors.IOError{Path: "stdin", Step: mderrors.StepRead, Err: err}
			}

			result, err := convert.New(a.engine, a.log).Convert(convert.Request{From: from, Input: input, Config: cfg})
			if err != nil {
				return err
			}
			// Output ends with exactly the encoder's line breaks when it
			// has any (YAML block scalars keep theirs), else one newline.
			if !bytes.HasSuffix(result, []byte("\n")) {
				result = append(result, '\n')
			}
			_, err = cmd.OutOrStdout().Write(result)
			return err
		},
	}
	if flags != nil {
		flags(cmd.Flags())
	}
	return cmd
}

// hintTerminal tells an interactive user that input is expected.
func (a *app) hintTerminal() {
	f, ok := a.stdin.(*os.File)
	if !ok {
		return
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		a.log.Info("reading document from stdin, end input with Ctrl-D")
	}
}
