package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format is an output encoding of a report.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

// ParseFormat validates a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatMarkdown, FormatHTML, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown report format %q (expected json, markdown, html or text)", s)
}

// Extension returns the conventional file extension of the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// Render writes the report in the requested format.
func Render(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatMarkdown:
		_, err := io.WriteString(w, RenderMarkdown(r))
		return err
	case FormatHTML:
		return RenderHTML(w, r)
	case FormatText:
		_, err := io.WriteString(w, RenderText(r))
		return err
	}
	return fmt.Errorf("unknown report format %q", f)
}
