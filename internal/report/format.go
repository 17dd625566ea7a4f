package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/narrative-risk/riskview/internal/core"
)

// Format is an output encoding for a report.
type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format name. "text" is accepted for plain.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "text":
		return FormatPlain, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", core.ErrValidation(core.CodeInvalidFormat,
			fmt.Sprintf("unknown output format %q (want plain, json or yaml)", s))
	}
}

// Encode serializes r as JSON or YAML. Fields this client does not model are
// kept when r was decoded from analyzer output.
func Encode(r *core.AnalysisReport, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("indenting report: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case FormatYAML:
		doc, err := r.Document()
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding report as yaml: %w", err)
		}
		return out, nil
	default:
		return nil, core.ErrValidation(core.CodeInvalidFormat, fmt.Sprintf("cannot encode report as %q", f))
	}
}

// Write renders r to w in format f. opts applies to plain output only.
func Write(w io.Writer, r *core.AnalysisReport, f Format, opts Options) error {
	if f == FormatPlain {
		_, err := io.WriteString(w, Text(r, opts))
		return err
	}
	out, err := Encode(r, f)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Decode parses a saved report in JSON or YAML.
func Decode(data []byte) (*core.AnalysisReport, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, core.ErrDecode("report file is empty")
	}

	if trimmed[0] != '{' {
		var doc map[string]any
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, core.ErrDecode("report is neither JSON nor YAML").WithCause(err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, core.ErrDecode("report contains values JSON cannot represent").WithCause(err)
		}
		trimmed = converted
	}

	var r core.AnalysisReport
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return nil, core.ErrDecode("report is not a valid analysis report").WithCause(err)
	}
	return &r, nil
}
