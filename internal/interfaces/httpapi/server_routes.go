package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerResultsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/results", handler.GetResults)
	mux.HandleFunc("POST /v1/results/refresh", handler.RefreshResults)
	mux.HandleFunc("GET /v1/results/matchdays/{matchday}", handler.GetMatchday)
	mux.HandleFunc("PUT /v1/results/active", handler.SelectActiveMatchday)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/statistics/topscorers", handler.ListTopScorers)
	mux.HandleFunc("GET /v1/overview", handler.GetOverview)
}

func registerExportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/exports", handler.CreateExport)
}
