package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-results/internal/platform/logging"
	"gopkg.in/yaml.v3"
)

const (
	SourceOpenLigaDB = "openligadb"
	SourceGemini     = "gemini"
)

// Config stores runtime configuration for the service and the report CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           logging.Level
	LogFormat          logging.Format
	CORSAllowedOrigins []string
	CacheTTL           time.Duration
	Timezone           *time.Location

	ResultsSource string
	ResultsQuery  string
	LoadOnStart   bool
	LeagueName    string

	OpenLigaDBBaseURL               string
	OpenLigaDBLeague                string
	OpenLigaDBSeason                string
	OpenLigaDBTimeout               time.Duration
	OpenLigaDBMaxRetries            int
	OpenLigaDBWorkers               int
	OpenLigaDBCircuitEnabled        bool
	OpenLigaDBCircuitFailureCount   int
	OpenLigaDBCircuitOpenTimeout    time.Duration
	OpenLigaDBCircuitHalfOpenMaxReq int

	GeminiAPIKey          string
	GeminiModel           string
	GeminiSeasonLabel     string
	GeminiSearchGrounding bool
	GeminiTimeout         time.Duration

	ExportFilePrefix string
	ExportTitle      string

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
	PprofEnabled           bool
	PprofAddr              string
}

// Load reads the environment. When APP_CONFIG_FILE names a YAML file its
// top-level keys provide fallbacks for unset variables of the same name.
func Load() (Config, error) {
	vars, err := newLookup(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}
	return vars.load()
}

func (v lookup) load() (Config, error) {
	var (
		cfg Config
		err error
	)

	cfg.AppEnv, err = parseAppEnv(v.get("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	cfg.ServiceName = strings.TrimSpace(v.get("APP_SERVICE_NAME", "league-results-api"))
	cfg.ServiceVersion = strings.TrimSpace(v.get("APP_SERVICE_VERSION", "dev"))
	cfg.HTTPAddr = strings.TrimSpace(v.get("APP_HTTP_ADDR", ":8080"))

	if cfg.ReadTimeout, err = v.positiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = v.positiveDuration("APP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = v.positiveDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel, err = logging.ParseLevel(v.get("APP_LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}
	switch format := strings.ToLower(strings.TrimSpace(v.get("APP_LOG_FORMAT", string(logging.FormatJSON)))); format {
	case string(logging.FormatJSON), string(logging.FormatConsole):
		cfg.LogFormat = logging.Format(format)
	default:
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are json, console", format)
	}

	cfg.CORSAllowedOrigins = splitCSV(v.get("CORS_ALLOWED_ORIGINS", "*"))
	if cfg.CacheTTL, err = v.getDuration("CACHE_TTL", "5m"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be >= 0")
	}

	tzName := strings.TrimSpace(v.get("APP_TIMEZONE", "Europe/Berlin"))
	if cfg.Timezone, err = time.LoadLocation(tzName); err != nil {
		return Config{}, fmt.Errorf("parse APP_TIMEZONE: %w", err)
	}

	cfg.ResultsSource = strings.ToLower(strings.TrimSpace(v.get("RESULTS_SOURCE", SourceOpenLigaDB)))
	if cfg.ResultsSource != SourceOpenLigaDB && cfg.ResultsSource != SourceGemini {
		return Config{}, fmt.Errorf("invalid RESULTS_SOURCE %q: valid values are %s, %s", cfg.ResultsSource, SourceOpenLigaDB, SourceGemini)
	}
	cfg.ResultsQuery = strings.TrimSpace(v.get("RESULTS_QUERY", ""))
	if cfg.LoadOnStart, err = v.getBool("RESULTS_LOAD_ON_START", "true"); err != nil {
		return Config{}, err
	}
	cfg.LeagueName = strings.TrimSpace(v.get("LEAGUE_NAME", "1. Bundesliga"))

	cfg.OpenLigaDBBaseURL = strings.TrimSpace(v.get("OPENLIGADB_BASE_URL", "https://api.openligadb.de"))
	cfg.OpenLigaDBLeague = strings.TrimSpace(v.get("OPENLIGADB_LEAGUE", "bl1"))
	cfg.OpenLigaDBSeason = strings.TrimSpace(v.get("OPENLIGADB_SEASON", "2024"))
	if cfg.OpenLigaDBTimeout, err = v.positiveDuration("OPENLIGADB_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.OpenLigaDBMaxRetries, err = v.getInt("OPENLIGADB_MAX_RETRIES", 0); err != nil {
		return Config{}, err
	}
	if cfg.OpenLigaDBMaxRetries < 0 {
		return Config{}, fmt.Errorf("OPENLIGADB_MAX_RETRIES must be >= 0")
	}
	if cfg.OpenLigaDBWorkers, err = v.getInt("OPENLIGADB_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.OpenLigaDBWorkers < 1 {
		return Config{}, fmt.Errorf("OPENLIGADB_WORKERS must be >= 1")
	}
	if cfg.OpenLigaDBCircuitEnabled, err = v.getBool("OPENLIGADB_CIRCUIT_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.OpenLigaDBCircuitFailureCount, err = v.getInt("OPENLIGADB_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, err
	}
	if cfg.OpenLigaDBCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("OPENLIGADB_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.OpenLigaDBCircuitOpenTimeout, err = v.positiveDuration("OPENLIGADB_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.OpenLigaDBCircuitHalfOpenMaxReq, err = v.getInt("OPENLIGADB_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, err
	}
	if cfg.OpenLigaDBCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("OPENLIGADB_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg.GeminiAPIKey = strings.TrimSpace(v.get("GEMINI_API_KEY", ""))
	cfg.GeminiModel = strings.TrimSpace(v.get("GEMINI_MODEL", "gemini-2.0-flash"))
	cfg.GeminiSeasonLabel = strings.TrimSpace(v.get("GEMINI_SEASON_LABEL", "2024/2025"))
	if cfg.GeminiSearchGrounding, err = v.getBool("GEMINI_SEARCH_GROUNDING", "true"); err != nil {
		return Config{}, err
	}
	if cfg.GeminiTimeout, err = v.positiveDuration("GEMINI_TIMEOUT", "90s"); err != nil {
		return Config{}, err
	}
	if cfg.ResultsSource == SourceGemini && (cfg.GeminiAPIKey == "" || cfg.GeminiAPIKey == "PLACEHOLDER_API_KEY") {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required when RESULTS_SOURCE=%s", SourceGemini)
	}

	cfg.ExportFilePrefix = strings.TrimSpace(v.get("EXPORT_FILE_PREFIX", "Bundesliga_Matchdays"))
	cfg.ExportTitle = strings.TrimSpace(v.get("EXPORT_TITLE", "Bundesliga Results Report"))

	if cfg.UptraceEnabled, err = v.getBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(v.get("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(v.get("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = v.getBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(v.get("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(v.get("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(v.get("PYROSCOPE_AUTH_TOKEN", ""))
	if cfg.PyroscopeUploadRate, err = v.positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = v.getBool("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PprofAddr = strings.TrimSpace(v.get("PPROF_ADDR", ":6060"))

	return cfg, nil
}

// lookup resolves a key from the environment first and the overlay file second.
type lookup struct {
	file map[string]string
}

func newLookup(path string) (lookup, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return lookup{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return lookup{}, fmt.Errorf("read APP_CONFIG_FILE: %w", err)
	}
	return parseOverlay(raw)
}

func parseOverlay(raw []byte) (lookup, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return lookup{}, fmt.Errorf("parse APP_CONFIG_FILE: %w", err)
	}

	file := make(map[string]string, len(doc))
	for key, value := range doc {
		switch typed := value.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(typed))
			for _, item := range typed {
				parts = append(parts, fmt.Sprint(item))
			}
			file[strings.ToUpper(key)] = strings.Join(parts, ",")
		case map[string]any:
			return lookup{}, fmt.Errorf("parse APP_CONFIG_FILE: key %s must be a scalar or a list", key)
		default:
			file[strings.ToUpper(key)] = fmt.Sprint(typed)
		}
	}
	return lookup{file: file}, nil
}

func (v lookup) get(key, fallback string) string {
	if value := os.Getenv(key); strings.TrimSpace(value) != "" {
		return value
	}
	if value, ok := v.file[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func (v lookup) getInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(v.get(key, ""))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func (v lookup) getBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(v.get(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func (v lookup) getDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(v.get(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func (v lookup) positiveDuration(key, fallback string) (time.Duration, error) {
	out, err := v.getDuration(key, fallback)
	if err != nil {
		return 0, err
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
