// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/markdown-tool/pkg/types"
)

// DecodeStructured reads an AST serialized as JSON or YAML. Unknown fields
// and structurally invalid trees are rejected.
func (g *Goldmark) DecodeStructured(data []byte, variant types.StructuredVariant) (*types.Document, error) {
	var doc types.Document
	switch variant {
	case types.VariantJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding JSON document: %w", err)
		}
		if dec.More() {
			return nil, fmt.Errorf("decoding JSON document: unexpected data after the document")
		}
	case types.VariantYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("decoding YAML document: empty input")
			}
			return nil, fmt.Errorf("decoding YAML document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown structured variant %q", variant)
	}

	if doc.Blocks == nil {
		doc.Blocks = []types.Block{}
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &doc, nil
}

// EncodeStructured serializes doc as compact JSON or as YAML with two-space
// indentation. JSON has no trailing newline. YAML is returned exactly as the
// encoder wrote it: it ends with a line break, and a final block scalar owns
// its trailing line breaks, so trimming would change the last value.
func (g *Goldmark) EncodeStructured(doc *types.Document, variant types.StructuredVariant) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("encoding %s: document is nil", variant)
	}
	out := *doc
	if out.Blocks == nil {
		out.Blocks = []types.Block{}
	}

	switch variant {
	case types.VariantJSON:
		data, err := json.Marshal(&out)
		if err != nil {
			return nil, fmt.Errorf("encoding JSON document: %w", err)
		}
		return data, nil
	case types.VariantYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&out); err != nil {
			return nil, fmt.Errorf("encoding YAML document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding YAML document: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown structured variant %q", variant)
}
