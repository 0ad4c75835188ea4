// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package options composes per-target render configurations from user
// supplied options. A nil field means "not specified" and takes the
// documented default; every value is validated before a configuration is
// returned, so invalid options fail before any document is decoded.
package options

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"

	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/pkg/types"
)

// DefaultWidth is the wrap column used when no width is given.
const DefaultWidth = 80

// TextOptions are the user-facing options of the markdown target.
type TextOptions struct {
	Width                *int  `option:"width" validate:"omitempty,min=0"`
	SpacesBeforeListItem *int  `option:"spaces-before-list-item" validate:"omitempty,min=0,max=3"`
	EmptyLineBeforeList  *bool `option:"empty-line-before-list"`
}

// HTMLOptions are the user-facing options of the html target.
type HTMLOptions struct {
	Width        *int    `option:"width" validate:"omitempty,min=0"`
	AnchorPrefix *string `option:"anchor-prefix"`
}

// LatexOptions are the user-facing options of the latex target.
type LatexOptions struct {
	Width      *int    `option:"width" validate:"omitempty,min=0"`
	TableStyle *string `option:"table-style" validate:"omitempty,oneof=tabular longtabu booktabs"`
	CodeStyle  *string `option:"code-style" validate:"omitempty,oneof=verbatim listings minted"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("option")
	})
	return v
}

func defaultTextOptions() TextOptions {
	return TextOptions{
		Width:                ptr(DefaultWidth),
		SpacesBeforeListItem: ptr(1),
		EmptyLineBeforeList:  ptr(true),
	}
}

func defaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		Width:        ptr(DefaultWidth),
		AnchorPrefix: ptr(""),
	}
}

func defaultLatexOptions() LatexOptions {
	return LatexOptions{
		Width:      ptr(DefaultWidth),
		TableStyle: ptr(string(types.TableTabular)),
		CodeStyle:  ptr(string(types.CodeVerbatim)),
	}
}

// ComposeText builds the markdown render configuration.
func ComposeText(opts TextOptions) (types.TextConfig, error) {
	if err := check(opts); err != nil {
		return types.TextConfig{}, err
	}
	if err := mergo.Merge(&opts, defaultTextOptions(), mergo.WithoutDereference); err != nil {
		return types.TextConfig{}, &mderrors.InternalError{Op: "compose markdown options", Err: err}
	}
	return types.TextConfig{
		Width:                *opts.Width,
		SpacesBeforeListItem: *opts.SpacesBeforeListItem,
		EmptyLineBeforeList:  *opts.EmptyLineBeforeList,
	}, nil
}

// ComposeHTML builds the html render configuration.
func ComposeHTML(opts HTMLOptions) (types.HTMLConfig, error) {
	if err := check(opts); err != nil {
		return types.HTMLConfig{}, err
	}
	if err := mergo.Merge(&opts, defaultHTMLOptions(), mergo.WithoutDereference); err != nil {
		return types.HTMLConfig{}, &mderrors.InternalError{Op: "compose html options", Err: err}
	}
	return types.HTMLConfig{
		Width:        *opts.Width,
		AnchorPrefix: *opts.AnchorPrefix,
	}, nil
}

// ComposeLatex builds the latex render configuration. Style names are
// case-insensitive.
func ComposeLatex(opts LatexOptions) (types.LatexConfig, error) {
	opts.TableStyle = lower(opts.TableStyle)
	opts.CodeStyle = lower(opts.CodeStyle)
	if err := check(opts); err != nil {
		return types.LatexConfig{}, err
	}
	if err := mergo.Merge(&opts, defaultLatexOptions(), mergo.WithoutDereference); err != nil {
		return types.LatexConfig{}, &mderrors.InternalError{Op: "compose latex options", Err: err}
	}
	return types.LatexConfig{
		Width:      *opts.Width,
		TableStyle: types.TableStyle(*opts.TableStyle),
		CodeStyle:  types.CodeBlockStyle(*opts.CodeStyle),
	}, nil
}

// ComposeStructured builds the configuration of an AST serialization
// target. Those targets take no options.
func ComposeStructured(f types.OutputFormat) (types.StructuredConfig, error) {
	switch f {
	case types.OutputASTJSON:
		return types.StructuredConfig{Variant: types.VariantJSON}, nil
	case types.OutputASTYAML:
		return types.StructuredConfig{Variant: types.VariantYAML}, nil
	}
	return types.StructuredConfig{}, &mderrors.InternalError{
		Op:  "compose structured options",
		Err: fmt.Errorf("%s is not a structured output", f),
	}
}

// check runs struct validation and converts the first failure into an
// InvalidOptionError naming the option, the value and what is accepted.
func check(opts any) error {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &mderrors.InternalError{Op: "validate options", Err: err}
	}
	fe := verrs[0]
	return &mderrors.InvalidOptionError{
		Option:   fe.Field(),
		Value:    valueString(fe.Value()),
		Accepted: accepted(fe),
	}
}

func accepted(fe validator.FieldError) []string {
	switch fe.Tag() {
	case "oneof":
		return strings.Fields(fe.Param())
	case "min":
		return []string{"integers >= " + fe.Param()}
	case "max":
		return []string{"integers <= " + fe.Param()}
	}
	return nil
}

func valueString(v any) string {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

func lower(s *string) *string {
	if s == nil {
		return nil
	}
	return ptr(strings.ToLower(strings.TrimSpace(*s)))
}

func ptr[T any](v T) *T { return &v }

// Int, Bool and String return pointers for building options literals.
func Int(v int) *int          { return &v }
func Bool(v bool) *bool       { return &v }
func String(v string) *string { return &v }
