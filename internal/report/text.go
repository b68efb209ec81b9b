package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/valyala/bytebufferpool"
)

const textColumnSeparator = " | "

// TextRenderer writes an aligned plain-text table, one block per section.
// Page boundaries from the layout are kept as form-feed separated blocks.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Format() Format      { return FormatText }
func (r *TextRenderer) Extension() string   { return "txt" }
func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (r *TextRenderer) Render(w io.Writer, doc Document) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(doc.Title)
	_ = buf.WriteByte('\n')
	_, _ = buf.WriteString(strings.Repeat("=", runewidth.StringWidth(doc.Title)))
	_ = buf.WriteByte('\n')
	_, _ = fmt.Fprintf(buf, "Generated at %s\n", doc.GeneratedAt.Format("02.01.2006 15:04"))

	page := 1
	for _, section := range doc.Sections {
		for page < section.Page {
			page++
			_, _ = fmt.Fprintf(buf, "\f\n-- page %d --\n", page)
		}
		_ = buf.WriteByte('\n')
		writeTextSection(buf, section)
	}

	if _, err := w.Write(buf.B); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

func writeTextSection(buf *bytebufferpool.ByteBuffer, section Section) {
	var widths [len(Columns)]int
	for i, title := range Columns {
		widths[i] = runewidth.StringWidth(title)
	}
	for _, row := range section.Rows {
		for i, cell := range row.Cells() {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	_, _ = buf.WriteString(section.Heading)
	_ = buf.WriteByte('\n')
	writeTextRow(buf, Columns, widths)

	total := 0
	for _, w := range widths {
		total += w
	}
	total += len(textColumnSeparator) * (len(widths) - 1)
	_, _ = buf.WriteString(strings.Repeat("-", total))
	_ = buf.WriteByte('\n')

	for _, row := range section.Rows {
		writeTextRow(buf, row.Cells(), widths)
	}
}

func writeTextRow(buf *bytebufferpool.ByteBuffer, cells [len(Columns)]string, widths [len(Columns)]int) {
	last := len(cells) - 1
	for i, cell := range cells {
		if i > 0 {
			_, _ = buf.WriteString(textColumnSeparator)
		}
		if i == last {
			_, _ = buf.WriteString(cell)
			continue
		}
		_, _ = buf.WriteString(runewidth.FillRight(cell, widths[i]))
	}
	_ = buf.WriteByte('\n')
}
