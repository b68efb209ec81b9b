package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/league-results/internal/domain/matchday"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"github.com/riskibarqy/league-results/internal/report"
	"go.opentelemetry.io/otel/attribute"
)

type ExportRequest struct {
	Matchdays []int
	Format    report.Format
}

// ExportResult carries a rendered document ready to be written or served.
type ExportResult struct {
	FileName    string
	ContentType string
	Matchdays   []int
	Pages       int
	Content     []byte
}

type ExportServiceConfig struct {
	Title      string
	FilePrefix string
	Location   *time.Location
	Layout     report.Layout
	Renderers  map[report.Format]report.Renderer
	Logger     *logging.Logger
	Now        func() time.Time
}

type ExportService struct {
	results    *ResultsService
	title      string
	filePrefix string
	location   *time.Location
	layout     report.Layout
	renderers  map[report.Format]report.Renderer
	logger     *logging.Logger
	now        func() time.Time
}

func NewExportService(results *ResultsService, cfg ExportServiceConfig) *ExportService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	layout := cfg.Layout
	if layout == (report.Layout{}) {
		layout = report.DefaultLayout()
	}
	renderers := cfg.Renderers
	if len(renderers) == 0 {
		renderers = report.Renderers(layout)
	}
	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = "Bundesliga Results Report"
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &ExportService{
		results:    results,
		title:      title,
		filePrefix: strings.TrimSpace(cfg.FilePrefix),
		location:   loc,
		layout:     layout,
		renderers:  renderers,
		logger:     logger,
		now:        now,
	}
}

// Export renders the selected matchdays. Numbers that are not loaded are skipped.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.Export", attribute.IntSlice("league.matchdays", req.Matchdays))
	defer span.End()

	selection := normalizeSelection(req.Matchdays)
	if len(selection) == 0 {
		return ExportResult{}, fmt.Errorf("%w: at least one matchday must be selected", ErrInvalidInput)
	}

	format := req.Format
	if format == "" {
		format = report.FormatPDF
	}
	span.SetAttributes(attribute.String("report.format", string(format)))
	renderer, ok := s.renderers[format]
	if !ok {
		return ExportResult{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}

	snapshot := s.results.Snapshot()
	if !snapshot.Loaded() {
		return ExportResult{}, fmt.Errorf("%w: export needs loaded results", ErrNotLoaded)
	}

	selected := make([]matchday.MatchdayData, 0, len(selection))
	for _, n := range selection {
		if item, ok := matchday.Find(snapshot.Matchdays, n); ok {
			selected = append(selected, item)
		}
	}
	if len(selected) == 0 {
		return ExportResult{}, fmt.Errorf("%w: none of matchdays %v are loaded", ErrNotFound, selection)
	}

	doc := report.Build(s.title, s.now(), selected, s.location)
	s.layout.Paginate(&doc)

	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		return ExportResult{}, fmt.Errorf("render %s report: %w", format, err)
	}

	fileName := report.FileName(s.filePrefix, doc.Matchdays, renderer.Extension())
	s.logger.InfoContext(ctx, "report exported",
		"format", string(format),
		"file_name", fileName,
		"matchdays", doc.Matchdays,
		"pages", doc.Pages,
		"bytes", buf.Len(),
	)

	return ExportResult{
		FileName:    fileName,
		ContentType: renderer.ContentType(),
		Matchdays:   doc.Matchdays,
		Pages:       doc.Pages,
		Content:     buf.Bytes(),
	}, nil
}

func normalizeSelection(numbers []int) []int {
	seen := make(map[int]struct{}, len(numbers))
	out := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if n <= 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
