package report

// Layout positions are millimetres on an A4 portrait page.
type Layout struct {
	StartY        float64
	HeadingHeight float64
	RowHeight     float64
	SectionGap    float64
	PageBreakY    float64
	PageTopY      float64
	PageBottomY   float64
}

func DefaultLayout() Layout {
	return Layout{
		StartY:        40,
		HeadingHeight: 5,
		RowHeight:     7,
		SectionGap:    15,
		PageBreakY:    270,
		PageTopY:      20,
		PageBottomY:   287,
	}
}

// SectionHeight covers the heading, the header row and every match row.
func (l Layout) SectionHeight(s Section) float64 {
	return l.HeadingHeight + float64(len(s.Rows)+1)*l.RowHeight
}

// Paginate assigns each section a page and a top offset. The cursor moves past
// a section plus the gap; once it passes PageBreakY the next section starts a
// new page at PageTopY. A section that would cross PageBottomY also starts a
// new page unless it is already first on its page.
func (l Layout) Paginate(doc *Document) {
	page := 1
	cursor := l.StartY
	for i := range doc.Sections {
		height := l.SectionHeight(doc.Sections[i])
		if cursor+height > l.PageBottomY && cursor > l.PageTopY {
			page++
			cursor = l.PageTopY
		}

		doc.Sections[i].Page = page
		doc.Sections[i].Top = cursor

		cursor += height + l.SectionGap
		if cursor > l.PageBreakY && i < len(doc.Sections)-1 {
			page++
			cursor = l.PageTopY
		}
	}
	doc.Pages = page
}
