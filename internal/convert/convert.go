// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the conversion pipeline: decode the input into
// the document AST, then encode it with the configuration of the requested
// output. Nothing is written anywhere; the caller decides what to do with
// the returned bytes.
package convert

import (
	"fmt"

	"github.com/pdiddy/markdown-tool/internal/engine"
	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/internal/format"
	"github.com/pdiddy/markdown-tool/internal/logger"
	"github.com/pdiddy/markdown-tool/pkg/types"
)

// Request is one conversion: the input encoding, the raw input and the
// composed configuration of the output target.
type Request struct {
	From   types.InputFormat
	Input  []byte
	Config types.RenderConfig
}

// Converter runs conversion requests against a document engine.
type Converter struct {
	engine engine.Engine
	log    logger.Logger
}

// New returns a Converter. A nil log discards diagnostics.
func New(e engine.Engine, log logger.Logger) *Converter {
	if log == nil {
		log = logger.Discard()
	}
	return &Converter{engine: e, log: log}
}

// Convert decodes req.Input and encodes it for the target selected by
// req.Config. Decode failures are DecodeErrors; a structured encoder
// rejecting a decoded document is an InternalError. The output is returned
// exactly as the encoder produced it.
func (c *Converter) Convert(req Request) ([]byte, error) {
	if req.Config == nil {
		return nil, &mderrors.InternalError{Op: "convert", Err: fmt.Errorf("no output configuration")}
	}

	doc, err := c.decode(req.From, req.Input)
	if err != nil {
		return nil, err
	}
	c.log.Debug("decoded input", "from", req.From, "blocks", len(doc.Blocks))

	out, err := c.encode(doc, req.Config)
	if err != nil {
		return nil, err
	}
	c.log.Debug("encoded output", "to", req.Config.OutputFormat(), "bytes", len(out))
	return out, nil
}

func (c *Converter) decode(from types.InputFormat, input []byte) (*types.Document, error) {
	if from == types.InputMarkdown {
		doc, err := c.engine.DecodeText(string(input))
		if err != nil {
			return nil, &mderrors.DecodeError{Format: string(from), Err: err}
		}
		return doc, nil
	}

	variant, ok := format.StructuredVariant(from)
	if !ok {
		return nil, &mderrors.UnsupportedFormatError{
			Direction: "input",
			Token:     string(from),
			Accepted:  format.InputTokens(),
		}
	}
	doc, err := c.engine.DecodeStructured(input, variant)
	if err != nil {
		return nil, &mderrors.DecodeError{Format: string(from), Err: err}
	}
	return doc, nil
}

func (c *Converter) encode(doc *types.Document, cfg types.RenderConfig) ([]byte, error) {
	switch cfg := cfg.(type) {
	case types.TextConfig:
		return []byte(c.engine.EncodeText(doc, cfg)), nil
	case types.HTMLConfig:
		return []byte(c.engine.EncodeHTML(doc, cfg)), nil
	case types.LatexConfig:
		return []byte(c.engine.EncodeLatex(doc, cfg)), nil
	case types.StructuredConfig:
		out, err := c.engine.EncodeStructured(doc, cfg.Variant)
		if err != nil {
			return nil, &mderrors.InternalError{Op: "encode " + string(cfg.OutputFormat()), Err: err}
		}
		return out, nil
	}
	return nil, &mderrors.InternalError{Op: "encode", Err: fmt.Errorf("unhandled configuration %T", cfg)}
}
