// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the markdown-tool CLI.
// convert-to translates a document read from stdin between markdown, the
// AST serializations, HTML and LaTeX; format rewrites markdown files in
// place to their canonical form.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/markdown-tool/internal/engine"
	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Exit codes.
const (
	exitOK                 = 0
	exitFormattingRequired = 1
	exitError              = 2
)

// app carries the state of one invocation. Nothing is shared between
// invocations, so tests can run command trees side by side.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	engine engine.Engine
	fs     afero.Fs
	v      *viper.Viper
	log    logger.Logger
}

func init() {
	// Output subcommands match case-insensitively, like format tokens.
	cobra.EnableCaseInsensitive = true
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runWith(args, stdin, stdout, stderr, engine.New())
}

func runWith(args []string, stdin io.Reader, stdout, stderr io.Writer, e engine.Engine) int {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		engine: e,
		fs:     afero.NewOsFs(),
		v:      viper.New(),
		log:    logger.NewLogger(&logger.Config{Level: logger.InfoLevel, Output: stderr}),
	}
	if args == nil {
		args = []string{}
	}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return a.exitCode(root.Execute())
}

func (a *app) exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, mderrors.ErrFormattingRequired):
		return exitFormattingRequired
	}
	a.log.Error(err.Error())
	return exitError
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "markdown-tool",
		Short: "Convert and format markdown documents",
		Long: `markdown-tool converts documents between markdown, HTML, LaTeX and a
JSON or YAML serialization of the document tree, and rewrites markdown
files in place to a canonical form.

Every conversion goes through one document tree, so any input can be
rendered to any output. Output options can also be set per target in a
markdown-tool.yaml config file.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setupLogger(cmd); err != nil {
				return err
			}
			cfgFile, _ := cmd.Flags().GetString("config")
			return a.initConfig(cfgFile)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default: ./markdown-tool.yaml or ~/.config/markdown-tool/markdown-tool.yaml)")
	root.PersistentFlags().String("log-level", string(logger.InfoLevel), "log level: debug, info, warn, error")
	root.PersistentFlags().Bool("log-json", false, "log in JSON format")

	root.AddCommand(a.convertCmd(), a.formatCmd(), a.versionCmd())
	return root
}

func (a *app) setupLogger(cmd *cobra.Command) error {
	raw, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	level, err := logger.ParseLevel(raw)
	if err != nil {
		return err
	}
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return fmt.Errorf("failed to get log-json flag: %w", err)
	}
	a.log = logger.NewLogger(&logger.Config{Level: level, Output: a.stderr, JSON: logJSON})
	return nil
}

// initConfig reads the optional config file. A missing default file is
// fine; an explicit --config that cannot be read is an error. Environment
// variables are never consulted.
func (a *app) initConfig(cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName("markdown-tool")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "markdown-tool"))
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		path := cfgFile
		if path == "" {
			path = a.v.ConfigFileUsed()
		}
		return &mderrors.IOError{Path: path, Step: mderrors.StepRead, Err: err}
	}
	a.log.Debug("using config file", "path", a.v.ConfigFileUsed())
	return nil
}
