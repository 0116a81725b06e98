// Package output writes command results either as terminal text or as
// structured json/yaml, optionally filtered through a jq query.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a flag value to a Format, an empty string means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|json|yaml)")
	}
}

type Printer struct {
	w      io.Writer
	format Format
	query  *gojq.Code
}

// NewPrinter compiles query up front so that a bad query fails before any
// request is made. A query implies json when the format is text.
func NewPrinter(w io.Writer, format Format, query string) (*Printer, error) {
	p := &Printer{w: w, format: format}
	if query == "" {
		return p, nil
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid --jq: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid --jq: %w", err)
	}
	p.query = code
	if p.format == FormatText {
		p.format = FormatJSON
	}
	return p, nil
}

func (p *Printer) Structured() bool {
	return p.format != FormatText
}

// Print writes data in the structured format, or calls text for the text
// format.
func (p *Printer) Print(data any, text func(w io.Writer) error) error {
	if !p.Structured() {
		return text(p.w)
	}

	if p.query == nil {
		return p.encode(data)
	}

	// gojq only understands the types encoding/json decodes into
	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	iter := p.query.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("jq: %w", err)
		}
		err := p.encode(v)
		if err != nil {
			return err
		}
	}
}

func (p *Printer) encode(v any) error {
	switch p.format {
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		err := enc.Encode(v)
		if err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func normalize(data any) (any, error) {
	serialized, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out any
	err = json.Unmarshal(serialized, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
