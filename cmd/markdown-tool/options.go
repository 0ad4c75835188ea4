// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/internal/options"
)

// Config file sections, one per output target.
const (
	sectionMarkdown = "markdown"
	sectionHTML     = "html"
	sectionLatex    = "latex"
)

const noEmptyLineFlag = "no-empty-line-before-list"

func addWidthFlag(fs *pflag.FlagSet) {
	fs.Int("width", options.DefaultWidth, "wrap column for paragraph text; 0 disables wrapping")
}

func addMarkdownFlags(fs *pflag.FlagSet) {
	addWidthFlag(fs)
	fs.Int("spaces-before-list-item", 1, "spaces before a list marker (0-3)")
	fs.Bool(noEmptyLineFlag, false, "do not separate a paragraph from a following list with an empty line")
}

// optionSource resolves one option with the precedence explicit flag,
// then config file section, then unspecified (nil) so the composer
// applies its default.
type optionSource struct {
	flags   *pflag.FlagSet
	v       *viper.Viper
	section string
}

func newOptionSource(cmd *cobra.Command, v *viper.Viper, section string) optionSource {
	return optionSource{flags: cmd.Flags(), v: v, section: section}
}

func (s optionSource) changed(flag string) bool {
	f := s.flags.Lookup(flag)
	return f != nil && f.Changed
}

// configValue returns the raw config value for a flag name; config keys
// use underscores where flags use dashes.
func (s optionSource) configValue(name string) (any, bool) {
	key := s.section + "." + strings.ReplaceAll(name, "-", "_")
	if !s.v.IsSet(key) {
		return nil, false
	}
	return s.v.Get(key), true
}

func (s optionSource) intOption(flag string) (*int, error) {
	if s.changed(flag) {
		n, err := s.flags.GetInt(flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		return &n, nil
	}
	raw, ok := s.configValue(flag)
	if !ok {
		return nil, nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return nil, &mderrors.InvalidOptionError{Option: flag, Value: fmt.Sprint(raw), Accepted: []string{"integers"}}
	}
	return &n, nil
}

func (s optionSource) stringOption(flag string) (*string, error) {
	if s.changed(flag) {
		v, err := s.flags.GetString(flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		return &v, nil
	}
	raw, ok := s.configValue(flag)
	if !ok {
		return nil, nil
	}
	v, err := cast.ToStringE(raw)
	if err != nil {
		return nil, &mderrors.InvalidOptionError{Option: flag, Value: fmt.Sprint(raw)}
	}
	return &v, nil
}

// emptyLineBeforeList reads the negated flag or the positive config key.
func (s optionSource) emptyLineBeforeList() (*bool, error) {
	if s.changed(noEmptyLineFlag) {
		no, err := s.flags.GetBool(noEmptyLineFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", noEmptyLineFlag, err)
		}
		v := !no
		return &v, nil
	}
	raw, ok := s.configValue("empty-line-before-list")
	if !ok {
		return nil, nil
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		return nil, &mderrors.InvalidOptionError{Option: "empty-line-before-list", Value: fmt.Sprint(raw), Accepted: []string{"true", "false"}}
	}
	return &v, nil
}

func (s optionSource) textOptions() (options.TextOptions, error) {
	var opts options.TextOptions
	var err error
	if opts.Width, err = s.intOption("width"); err != nil {
		return opts, err
	}
	if opts.SpacesBeforeListItem, err = s.intOption("spaces-before-list-item"); err != nil {
		return opts, err
	}
	opts.EmptyLineBeforeList, err = s.emptyLineBeforeList()
	return opts, err
}

func (s optionSource) htmlOptions() (options.HTMLOptions, error) {
	var opts options.HTMLOptions
	var err error
	if opts.Width, err = s.intOption("width"); err != nil {
		return opts, err
	}
	opts.AnchorPrefix, err = s.stringOption("anchor-prefix")
	return opts, err
}

func (s optionSource) latexOptions() (options.LatexOptions, error) {
	var opts options.LatexOptions
	var err error
	if opts.Width, err = s.intOption("width"); err != nil {
		return opts, err
	}
	if opts.TableStyle, err = s.stringOption("table-style"); err != nil {
		return opts, err
	}
	opts.CodeStyle, err = s.stringOption("code-style")
	return opts, err
}
