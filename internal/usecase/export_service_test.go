package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	matchdaymock "github.com/riskibarqy/league-results/internal/mocks/domain/matchday"
	"github.com/riskibarqy/league-results/internal/report"
	"github.com/stretchr/testify/mock"
)

func TestExportService_Export_TextReport(t *testing.T) {
	t.Parallel()

	service := NewExportService(loadedResultsService(t, 1, 2, 3), ExportServiceConfig{
		Title: "Bundesliga Results Report",
		Now:   func() time.Time { return time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC) },
	})

	got, err := service.Export(context.Background(), ExportRequest{Matchdays: []int{3, 1, 3, 42}, Format: report.FormatText})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if got.FileName != "Bundesliga_Matchdays_1_3.txt" {
		t.Fatalf("unexpected file name: %q", got.FileName)
	}
	if got.ContentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type: %q", got.ContentType)
	}

	text := string(got.Content)
	first := strings.Index(text, "Matchday 1")
	third := strings.Index(text, "Matchday 3")
	if first < 0 || third < 0 || first > third {
		t.Fatalf("expected ascending sections:\n%s", text)
	}
	if strings.Contains(text, "Matchday 2") {
		t.Fatalf("unselected matchday must not be exported")
	}
}

func TestExportService_Export_Errors(t *testing.T) {
	t.Parallel()

	loaded := NewExportService(loadedResultsService(t, 1), ExportServiceConfig{})
	if _, err := loaded.Export(context.Background(), ExportRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty selection, got %v", err)
	}
	if _, err := loaded.Export(context.Background(), ExportRequest{Matchdays: []int{7}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown matchdays, got %v", err)
	}
	if _, err := loaded.Export(context.Background(), ExportRequest{Matchdays: []int{1}, Format: "docx"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown format, got %v", err)
	}

	empty := NewExportService(newTestResultsService(nil), ExportServiceConfig{})
	if _, err := empty.Export(context.Background(), ExportRequest{Matchdays: []int{1}}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestExportService_Export_PDFDefault(t *testing.T) {
	t.Parallel()

	service := NewExportService(loadedResultsService(t, 1, 2), ExportServiceConfig{FilePrefix: "BL"})
	got, err := service.Export(context.Background(), ExportRequest{Matchdays: []int{2, 1}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if got.FileName != "BL_1_2.pdf" || got.ContentType != "application/pdf" || got.Pages != 1 {
		t.Fatalf("unexpected pdf export: name=%q type=%q pages=%d", got.FileName, got.ContentType, got.Pages)
	}
}

func TestExportService_Export_ServesPreviousResultsDuringRefresh(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	source := matchdaymock.NewSource(t)
	source.On("FetchMatchdays", mock.Anything, "2024").Return(testMatchdays(1, 2), nil).Once()
	source.On("FetchMatchdays", mock.Anything, "2024").
		Run(func(mock.Arguments) { <-release }).
		Return(testMatchdays(1, 2, 3), nil).
		Once()

	results := newTestResultsService(source)
	if _, err := results.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := results.Load(context.Background())
		done <- err
	}()
	deadline := time.Now().Add(2 * time.Second)
	for results.Snapshot().Status != LoadStatusLoading {
		if time.Now().After(deadline) {
			close(release)
			t.Fatalf("refresh never started")
		}
		time.Sleep(time.Millisecond)
	}

	export := NewExportService(results, ExportServiceConfig{})
	got, err := export.Export(context.Background(), ExportRequest{Matchdays: []int{1, 2}, Format: report.FormatText})
	if err != nil {
		close(release)
		t.Fatalf("export during refresh: %v", err)
	}
	if len(got.Matchdays) != 2 {
		t.Fatalf("expected both loaded matchdays exported, got %v", got.Matchdays)
	}

	table, err := NewStandingService(nil, "2024", results, time.Minute, nil).Table(context.Background())
	if err != nil || len(table) != 2 {
		close(release)
		t.Fatalf("table during refresh: %v %v", table, err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if results.Snapshot().ActiveMatchday != 3 {
		t.Fatalf("expected refreshed collection to become active")
	}
}
