// Package iremitter serializes the IR as JSON or YAML.
package iremitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/botspec/internal/schema"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Options controls how the IR is rendered.
type Options struct {
	Format Format // json (default) or yaml
	Indent int    // spaces per level; 2 when zero
}

// Result describes what was written.
type Result struct {
	Format  Format
	Size    int
	Types   int
	Methods int
}

// ParseFormat accepts the names used on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("iremitter: unknown format %q", s)
	}
}

// Emit writes ir to w. Output is deterministic: document order is kept and
// the encoding ends with a newline.
func Emit(ctx context.Context, ir *schema.IR, w io.Writer, opts Options) (*Result, error) {
	if ir == nil {
		return nil, fmt.Errorf("iremitter: nil IR")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	format := opts.Format
	if format == "" {
		format = JSON
	}

	var buf bytes.Buffer
	switch format {
	case JSON:
		data, err := json.MarshalIndent(ir, "", strings.Repeat(" ", indent))
		if err != nil {
			return nil, fmt.Errorf("marshal ir: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		if err := enc.Encode(ir); err != nil {
			return nil, fmt.Errorf("marshal ir: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal ir: %w", err)
		}
	default:
		return nil, fmt.Errorf("iremitter: unknown format %q", format)
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("write ir: %w", err)
	}
	return &Result{Format: format, Size: n, Types: len(ir.Types), Methods: len(ir.Methods)}, nil
}
