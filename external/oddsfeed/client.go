package oddsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/nketchum/sidebet/internal/domain/identity"
	"github.com/nketchum/sidebet/internal/platform/logging"
	"github.com/nketchum/sidebet/internal/platform/resilience"
	"github.com/nketchum/sidebet/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.the-odds-api.com/v4"
	defaultSportKey = "americanfootball_nfl"
)

var apiKeyParamRegex = regexp.MustCompile(`apiKey=[^&\s"']+`)
var errOddsFeedTransient = crerr.New("odds feed transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	APIKey          string
	SportKey        string
	Timeout         time.Duration
	RateLimitPerSec float64
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client reads the odds aggregator's upcoming-games feed. The feed has no
// notion of league weeks, so candidates carry identity fields only.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	sportKey       string
	logger         *logging.Logger
	limiter        *rate.Limiter
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	sportKey := strings.TrimSpace(cfg.SportKey)
	if sportKey == "" {
		sportKey = defaultSportKey
	}

	limit := cfg.RateLimitPerSec
	if limit <= 0 {
		limit = 1
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		sportKey:       sportKey,
		logger:         logger,
		limiter:        rate.NewLimiter(rate.Limit(limit), 1),
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type oddsEvent struct {
	ID           string `json:"id"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
}

// FetchCandidates lists upcoming games as identity candidates. Week and
// season stay zero; the matcher scores on teams and kickoff alone.
func (c *Client) FetchCandidates(ctx context.Context) ([]identity.Identity, error) {
	path := "/sports/" + c.sportKey + "/events"

	var events []oddsEvent
	if err := c.doJSON(ctx, path, &events); err != nil {
		return nil, fmt.Errorf("fetch odds events: %w", err)
	}

	out := make([]identity.Identity, 0, len(events))
	for _, event := range events {
		if event.ID == "" {
			continue
		}
		kickoff := time.Time{}
		if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(event.CommenceTime)); err == nil {
			kickoff = parsed.UTC()
		}
		out = append(out, identity.Identity{
			OddsID:   event.ID,
			HomeTeam: event.HomeTeam,
			AwayTeam: event.AwayTeam,
			Kickoff:  kickoff,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "odds feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: odds provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	values.Set("apiKey", c.apiKey)
	values.Set("dateFormat", "iso")
	fullURL := c.baseURL + path + "?" + values.Encode()

	out, err, _ := c.flight.Do(path, func() (any, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errOddsFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %s", errOddsFeedTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errOddsFeedTransient, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: provider status=%d", errOddsFeedTransient, resp.StatusCode)
		}
		return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
	}

	return raw, nil
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apiKey=REDACTED")
}
