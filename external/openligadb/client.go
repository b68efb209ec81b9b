package openligadb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"github.com/riskibarqy/league-results/internal/platform/resilience"
	"github.com/riskibarqy/league-results/internal/usecase"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL  = "https://api.openligadb.de"
	defaultLeague   = "bl1"
	defaultSeason   = "2024"
	defaultWorkers  = 4
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 6 << 20
)

var (
	seasonRegex          = regexp.MustCompile(`^\d{4}$`)
	errOpenLigaTransient = crerr.New("openligadb transient failure")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	League         string
	Season         string
	Timeout        time.Duration
	MaxRetries     int
	Workers        int
	Location       *time.Location
	Now            func() time.Time
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads matchdays and the league table from OpenLigaDB.
type Client struct {
	httpClient *http.Client
	baseURL    string
	league     string
	season     string
	maxRetries int
	workers    int
	location   *time.Location
	now        func() time.Time
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	breakerCfg := cfg.CircuitBreaker
	breakerCfg.IsFailure = isOpenLigaCircuitFailure

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		league:     firstNonEmpty(cfg.League, defaultLeague),
		season:     firstNonEmpty(cfg.Season, defaultSeason),
		maxRetries: maxInt(cfg.MaxRetries, 0),
		workers:    positiveOr(cfg.Workers, defaultWorkers),
		location:   loc,
		now:        now,
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(breakerCfg),
	}
}

// resolveSeason maps a load query onto a season year. Empty means the configured season.
func (c *Client) resolveSeason(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.season, nil
	}
	if !seasonRegex.MatchString(query) {
		return "", fmt.Errorf("%w: season must be a four digit year, got %q", usecase.ErrInvalidInput, query)
	}
	return query, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		var raw []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		})
		return raw, execErr
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "openligadb circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return fmt.Errorf("%w: results provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s: %v", usecase.ErrMalformedResponse, path, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %v", errOpenLigaTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errOpenLigaTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errOpenLigaTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	return nil, lastErr
}

func isOpenLigaCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errOpenLigaTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
