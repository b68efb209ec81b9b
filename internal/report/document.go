package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-results/internal/domain/matchday"
)

const dateLayout = "02.01.2006"

// Columns is the fixed table header of every matchday section.
var Columns = [...]string{"Date", "Home", "Result", "Away", "Goals"}

type Row struct {
	Date  string
	Home  string
	Score string
	Away  string
	Goals string
}

func (r Row) Cells() [len(Columns)]string {
	return [len(Columns)]string{r.Date, r.Home, r.Score, r.Away, r.Goals}
}

// Section is one matchday table. Page and Top are filled by Layout.Paginate.
type Section struct {
	Matchday int
	Heading  string
	Rows     []Row
	Page     int
	Top      float64
}

type Document struct {
	Title       string
	GeneratedAt time.Time
	Matchdays   []int
	Sections    []Section
	Pages       int
}

// Build turns already selected matchdays into an unpaginated document.
// Sections follow ascending matchday order regardless of input order.
func Build(title string, generatedAt time.Time, items []matchday.MatchdayData, loc *time.Location) Document {
	if loc == nil {
		loc = time.UTC
	}

	sorted := matchday.CloneAll(items)
	matchday.SortAscending(sorted)

	doc := Document{
		Title:       strings.TrimSpace(title),
		GeneratedAt: generatedAt.In(loc),
		Matchdays:   matchday.Numbers(sorted),
		Sections:    make([]Section, 0, len(sorted)),
	}
	for _, md := range sorted {
		section := Section{
			Matchday: md.Matchday,
			Heading:  fmt.Sprintf("Matchday %d", md.Matchday),
			Rows:     make([]Row, 0, len(md.Matches)),
		}
		for _, m := range md.Matches {
			section.Rows = append(section.Rows, buildRow(m, loc))
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}

func buildRow(m matchday.Match, loc *time.Location) Row {
	row := Row{
		Home:  m.HomeTeam,
		Score: fmt.Sprintf("%d : %d", m.HomeScore, m.AwayScore),
		Away:  m.AwayTeam,
		Goals: FormatGoals(m.Goals),
	}
	if !m.Kickoff.IsZero() {
		row.Date = m.Kickoff.In(loc).Format(dateLayout)
	}
	return row
}

// FormatGoals renders goals as "player (minute')" joined by commas.
func FormatGoals(goals []matchday.Goal) string {
	if len(goals) == 0 {
		return ""
	}
	parts := make([]string, 0, len(goals))
	for _, g := range goals {
		parts = append(parts, g.Player+" ("+strconv.Itoa(g.Minute)+"')")
	}
	return strings.Join(parts, ", ")
}

// FileName joins the prefix and the sorted, unique matchday numbers.
func FileName(prefix string, numbers []int, ext string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	var b strings.Builder
	b.WriteString(prefix)
	for _, n := range numbers {
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(n))
	}
	if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

const DefaultFilePrefix = "Bundesliga_Matchdays"
