package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/league-results/external/gemini"
	"github.com/riskibarqy/league-results/external/openligadb"
	"github.com/riskibarqy/league-results/internal/config"
	"github.com/riskibarqy/league-results/internal/domain/standing"
	"github.com/riskibarqy/league-results/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"github.com/riskibarqy/league-results/internal/platform/resilience"
	"github.com/riskibarqy/league-results/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Services is the composed usecase layer shared by the API and the report CLI.
type Services struct {
	Results    *usecase.ResultsService
	Standings  *usecase.StandingService
	Statistics *usecase.StatisticsService
	Overview   *usecase.OverviewService
	Export     *usecase.ExportService
}

// NewServices builds the usecase layer around the source named by RESULTS_SOURCE.
func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	source, provider, err := newSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	results := usecase.NewResultsService(usecase.ResultsServiceConfig{
		Source:     source,
		SourceName: cfg.ResultsSource,
		Query:      cfg.ResultsQuery,
		Logger:     logger.Named("results"),
	})
	standings := usecase.NewStandingService(provider, tableSeason(cfg), results, cfg.CacheTTL, logger.Named("standings"))
	statistics := usecase.NewStatisticsService(results)

	return &Services{
		Results:    results,
		Standings:  standings,
		Statistics: statistics,
		Overview:   usecase.NewOverviewService(results, standings, statistics),
		Export: usecase.NewExportService(results, usecase.ExportServiceConfig{
			Title:      cfg.ExportTitle,
			FilePrefix: cfg.ExportFilePrefix,
			Location:   cfg.Timezone,
			Logger:     logger.Named("export"),
		}),
	}, nil
}

// newSource returns the configured matchday source. The league table provider
// is only set for OpenLigaDB; generative results compute their table locally.
func newSource(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.MatchdaySource, standing.Provider, error) {
	switch cfg.ResultsSource {
	case config.SourceGemini:
		source, err := gemini.NewSource(ctx, gemini.Config{
			APIKey:          cfg.GeminiAPIKey,
			Model:           cfg.GeminiModel,
			League:          cfg.LeagueName,
			Season:          cfg.GeminiSeasonLabel,
			SearchGrounding: cfg.GeminiSearchGrounding,
			Location:        cfg.Timezone,
			HTTPClient:      newHTTPClient(cfg, cfg.GeminiTimeout),
			Logger:          logger.Named("gemini"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build gemini source: %w", err)
		}
		return source, nil, nil
	case config.SourceOpenLigaDB, "":
		client := openligadb.NewClient(openligadb.ClientConfig{
			HTTPClient: newHTTPClient(cfg, cfg.OpenLigaDBTimeout),
			BaseURL:    cfg.OpenLigaDBBaseURL,
			League:     cfg.OpenLigaDBLeague,
			Season:     cfg.OpenLigaDBSeason,
			Timeout:    cfg.OpenLigaDBTimeout,
			MaxRetries: cfg.OpenLigaDBMaxRetries,
			Workers:    cfg.OpenLigaDBWorkers,
			Location:   cfg.Timezone,
			Logger:     logger.Named("openligadb"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.OpenLigaDBCircuitEnabled,
				FailureThreshold: cfg.OpenLigaDBCircuitFailureCount,
				OpenTimeout:      cfg.OpenLigaDBCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.OpenLigaDBCircuitHalfOpenMaxReq,
			},
		})
		return client, client, nil
	default:
		return nil, nil, fmt.Errorf("unsupported results source %q", cfg.ResultsSource)
	}
}

// tableSeason follows the season the results are loaded for, so the table and
// the matchdays always describe the same season.
func tableSeason(cfg config.Config) string {
	if query := strings.TrimSpace(cfg.ResultsQuery); query != "" {
		return query
	}
	return cfg.OpenLigaDBSeason
}

func newHTTPClient(cfg config.Config, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport
	if cfg.UptraceEnabled {
		transport = otelhttp.NewTransport(transport)
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	handler := httpapi.NewHandler(
		services.Results,
		services.Standings,
		services.Statistics,
		services.Overview,
		services.Export,
		logger.Named("http"),
	)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger.Named("http"), cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
