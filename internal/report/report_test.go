package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/riskibarqy/league-results/internal/domain/matchday"
)

func sampleMatchdays(numbers ...int) []matchday.MatchdayData {
	return sampleMatchdaysSized(9, numbers...)
}

func sampleMatchdaysSized(perMatchday int, numbers ...int) []matchday.MatchdayData {
	out := make([]matchday.MatchdayData, 0, len(numbers))
	for _, n := range numbers {
		matches := make([]matchday.Match, 0, perMatchday)
		for i := 0; i < perMatchday; i++ {
			matches = append(matches, matchday.Match{
				ID:        matchday.SyntheticID(n, i),
				Kickoff:   time.Date(2024, 8, 23+n, 18, 30, 0, 0, time.UTC),
				HomeTeam:  "FC Bayern München",
				AwayTeam:  "Borussia Mönchengladbach",
				HomeScore: 2,
				AwayScore: 1,
				Matchday:  n,
				Status:    matchday.StatusFinished,
				Goals: []matchday.Goal{
					{Minute: 12, Player: "Kane", Team: "FC Bayern München"},
					{Minute: 45, Player: "Kleindienst", Team: "Borussia Mönchengladbach"},
					{Minute: 90, Player: "Musiala", Team: "FC Bayern München"},
				},
			})
		}
		out = append(out, matchday.MatchdayData{Matchday: n, Matches: matches})
	}
	return out
}

func TestBuild_SortsSectionsAndFormatsRows(t *testing.T) {
	t.Parallel()

	generated := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	doc := Build("Bundesliga Results Report", generated, sampleMatchdays(3, 1), time.UTC)

	if got := doc.Matchdays; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("expected ascending matchdays, got=%v", got)
	}
	if doc.Sections[0].Heading != "Matchday 1" {
		t.Fatalf("unexpected heading: %q", doc.Sections[0].Heading)
	}

	row := doc.Sections[0].Rows[0]
	if row.Date != "24.08.2024" {
		t.Fatalf("unexpected date: %q", row.Date)
	}
	if row.Score != "2 : 1" {
		t.Fatalf("unexpected score: %q", row.Score)
	}
	if row.Goals != "Kane (12'), Kleindienst (45'), Musiala (90')" {
		t.Fatalf("unexpected goals: %q", row.Goals)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	if got := FileName("Bundesliga_Matchdays", []int{1, 3, 12}, "pdf"); got != "Bundesliga_Matchdays_1_3_12.pdf" {
		t.Fatalf("unexpected file name: %q", got)
	}
	if got := FileName("", []int{4}, ".txt"); got != "Bundesliga_Matchdays_4.txt" {
		t.Fatalf("unexpected default file name: %q", got)
	}
}

func TestPaginate_BreaksAfterThreshold(t *testing.T) {
	t.Parallel()

	// Each section: 5 + 3*7 = 26mm plus a 15mm gap. The cursor reaches 286 after
	// the sixth section, so the seventh starts page 2.
	doc := Build("t", time.Now(), sampleMatchdaysSized(2, 1, 2, 3, 4, 5, 6, 7), time.UTC)
	DefaultLayout().Paginate(&doc)

	wantPages := []int{1, 1, 1, 1, 1, 1, 2}
	wantTops := []float64{40, 81, 122, 163, 204, 245, 20}
	for i, section := range doc.Sections {
		if section.Page != wantPages[i] || section.Top != wantTops[i] {
			t.Fatalf("section %d placed at page=%d top=%.0f, want page=%d top=%.0f",
				i, section.Page, section.Top, wantPages[i], wantTops[i])
		}
	}
	if doc.Pages != 2 {
		t.Fatalf("expected 2 pages, got=%d", doc.Pages)
	}
}

func TestPaginate_NoTrailingEmptyPage(t *testing.T) {
	t.Parallel()

	doc := Build("t", time.Now(), sampleMatchdaysSized(2, 1, 2, 3, 4, 5, 6), time.UTC)
	DefaultLayout().Paginate(&doc)
	if doc.Pages != 1 {
		t.Fatalf("expected a single page, got=%d", doc.Pages)
	}
}

func TestPaginate_MovesSectionThatWouldOverflow(t *testing.T) {
	t.Parallel()

	// 75mm sections: 40 and 130 fit, the third would end at 295mm.
	doc := Build("t", time.Now(), sampleMatchdays(1, 2, 3), time.UTC)
	DefaultLayout().Paginate(&doc)

	third := doc.Sections[2]
	if third.Page != 2 || third.Top != 20 {
		t.Fatalf("expected third section on page 2 at 20mm, got page=%d top=%.0f", third.Page, third.Top)
	}
}

func TestTextRenderer_AlignsColumns(t *testing.T) {
	t.Parallel()

	doc := Build("Report", time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC), sampleMatchdays(1, 2, 3, 4), time.UTC)
	DefaultLayout().Paginate(&doc)

	var out bytes.Buffer
	if err := NewTextRenderer().Render(&out, doc); err != nil {
		t.Fatalf("render text: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Matchday 4") || !strings.Contains(text, "-- page 2 --") {
		t.Fatalf("expected page separator before matchday 4:\n%s", text)
	}

	lines := strings.Split(text, "\n")
	var header, row string
	for i, line := range lines {
		if strings.HasPrefix(line, "Date") {
			header, row = line, lines[i+2]
			break
		}
	}
	headerCol := runewidth.StringWidth(header[:strings.Index(header, "| Result")])
	rowCol := runewidth.StringWidth(row[:strings.Index(row, "| 2 : 1")])
	if headerCol != rowCol {
		t.Fatalf("columns are not aligned:\n%s\n%s", header, row)
	}
}

func TestPDFRenderer_WritesDocument(t *testing.T) {
	t.Parallel()

	doc := Build("Bundesliga Results Report", time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC), sampleMatchdays(1, 2, 3, 4), time.UTC)
	DefaultLayout().Paginate(&doc)

	var out bytes.Buffer
	if err := NewPDFRenderer(DefaultLayout()).Render(&out, doc); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected pdf header")
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat(""); err != nil || f != FormatPDF {
		t.Fatalf("expected pdf default, got %q %v", f, err)
	}
	if f, err := ParseFormat("TXT"); err != nil || f != FormatText {
		t.Fatalf("expected text, got %q %v", f, err)
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatalf("expected error for docx")
	}
}
