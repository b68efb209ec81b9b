package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/league-results/external/gemini"
	"github.com/riskibarqy/league-results/internal/config"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"github.com/riskibarqy/league-results/internal/usecase"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:                          config.EnvDev,
		HTTPAddr:                        ":0",
		CacheTTL:                        time.Minute,
		Timezone:                        time.UTC,
		ResultsSource:                   config.SourceOpenLigaDB,
		OpenLigaDBBaseURL:               baseURL,
		OpenLigaDBLeague:                "bl1",
		OpenLigaDBSeason:                "2024",
		OpenLigaDBTimeout:               5 * time.Second,
		OpenLigaDBWorkers:               2,
		OpenLigaDBCircuitFailureCount:   5,
		OpenLigaDBCircuitOpenTimeout:    time.Second,
		OpenLigaDBCircuitHalfOpenMaxReq: 1,
		CORSAllowedOrigins:              []string{"*"},
	}
}

func TestNewServices_OpenLigaDBEndToEnd(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/getavailablegroups/bl1/2024", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"groupOrderID":1}]`))
	})
	mux.HandleFunc("/getmatchdata/bl1/2024/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{
			"matchID": 61,
			"matchDateTimeUTC": "2024-08-23T18:30:00Z",
			"team1": {"teamName": "Borussia Mönchengladbach"},
			"team2": {"teamName": "Bayer 04 Leverkusen"},
			"matchIsFinished": true,
			"matchResults": [{"resultTypeID": 2, "pointsTeam1": 2, "pointsTeam2": 3}],
			"goals": [],
			"group": {"groupOrderID": 1}
		}]`))
	})
	mux.HandleFunc("/getbltable/bl1/2024", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	services, err := NewServices(context.Background(), testConfig(server.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("new services: %v", err)
	}

	snapshot, err := services.Results.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snapshot.Status != usecase.LoadStatusSuccess || snapshot.ActiveMatchday != 1 || snapshot.Source != config.SourceOpenLigaDB {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	table, err := services.Standings.Table(context.Background())
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if len(table) != 2 || table[0].TeamName != "Bayer 04 Leverkusen" {
		t.Fatalf("expected computed table led by Leverkusen, got %+v", table)
	}
}

func TestNewServices_TableFollowsResultsQuerySeason(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/getavailablegroups/bl1/2023", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"groupOrderID":34}]`))
	})
	mux.HandleFunc("/getmatchdata/bl1/2023/34", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{
			"matchID": 7,
			"matchDateTimeUTC": "2024-05-18T13:30:00Z",
			"team1": {"teamName": "Bayer 04 Leverkusen"},
			"team2": {"teamName": "FC Augsburg"},
			"matchIsFinished": true,
			"matchResults": [{"resultTypeID": 2, "pointsTeam1": 2, "pointsTeam2": 1}],
			"goals": [],
			"group": {"groupOrderID": 34}
		}]`))
	})
	mux.HandleFunc("/getbltable/bl1/2023", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"teamName": "Bayer 04 Leverkusen", "points": 90, "goals": 89, "opponentGoals": 24, "matches": 34, "won": 28, "draw": 6},
			{"teamName": "VfB Stuttgart", "points": 73, "goals": 78, "opponentGoals": 39, "matches": 34, "won": 23, "draw": 4, "lost": 7}
		]`))
	})
	mux.HandleFunc("/getbltable/bl1/2024", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"teamName": "FC Bayern München", "points": 82, "matches": 34}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := testConfig(server.URL)
	cfg.ResultsQuery = "2023"
	services, err := NewServices(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new services: %v", err)
	}
	if _, err := services.Results.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	table, err := services.Standings.Table(context.Background())
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if len(table) != 2 || table[0].TeamName != "Bayer 04 Leverkusen" || table[1].TeamName != "VfB Stuttgart" {
		t.Fatalf("expected the 2023 table, got %+v", table)
	}
}

func TestNewServices_GeminiRequiresCredential(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	cfg.ResultsSource = config.SourceGemini
	cfg.GeminiAPIKey = "PLACEHOLDER_API_KEY"

	_, err := NewServices(context.Background(), cfg, logging.NewNop())
	if !errors.Is(err, gemini.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestNewServices_UnknownSource(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	cfg.ResultsSource = "csv"
	if _, err := NewServices(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestNewHTTPServer(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:1")
	services, err := NewServices(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new services: %v", err)
	}

	srv, err := NewHTTPServer(cfg, services, logging.NewNop())
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", rec.Code)
	}

	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(cfg, services, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
