package report

import (
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// ParseFormat defaults to PDF for an empty value.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "pdf":
		return FormatPDF, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", raw)
	}
}

// Renderer writes a paginated document in one output format.
type Renderer interface {
	Format() Format
	Extension() string
	ContentType() string
	Render(w io.Writer, doc Document) error
}

// Renderers returns the built-in renderers keyed by format.
func Renderers(layout Layout) map[Format]Renderer {
	return map[Format]Renderer{
		FormatPDF:  NewPDFRenderer(layout),
		FormatText: NewTextRenderer(),
	}
}
