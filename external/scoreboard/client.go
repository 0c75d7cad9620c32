package scoreboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/nketchum/sidebet/internal/domain/game"
	"github.com/nketchum/sidebet/internal/domain/identity"
	"github.com/nketchum/sidebet/internal/platform/cache"
	"github.com/nketchum/sidebet/internal/platform/logging"
	"github.com/nketchum/sidebet/internal/platform/resilience"
	"github.com/nketchum/sidebet/internal/usecase"
)

const defaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"

var errScoreboardTransient = crerr.New("scoreboard transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	Timeout         time.Duration
	RateLimitPerSec float64
	Logger          *logging.Logger
	Cache           *cache.Store
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client reads the public scoreboard API. It is the only source of truth
// for canonical game identity and final results.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	logger         *logging.Logger
	cache          *cache.Store
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

	limit := cfg.RateLimitPerSec
	if limit <= 0 {
		limit = 4
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		logger:         logger,
		cache:          cfg.Cache,
		limiter:        rate.NewLimiter(rate.Limit(limit), 1),
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchWeekCandidates lists the provider's view of one week as identity
// candidates for the matcher.
func (c *Client) FetchWeekCandidates(ctx context.Context, season, week int) ([]identity.Identity, error) {
	events, err := c.fetchWeekEvents(ctx, season, week)
	if err != nil {
		return nil, err
	}

	out := make([]identity.Identity, 0, len(events))
	for _, event := range events {
		home, away := event.competitors()
		out = append(out, identity.Identity{
			ScoresID: event.ID,
			HomeTeam: home.Team.DisplayName,
			AwayTeam: away.Team.DisplayName,
			Kickoff:  event.kickoff(),
			Week:     week,
			Season:   season,
		})
	}
	return out, nil
}

// FetchWeekResults returns the week's games with status, scores and, for
// finished games, the player stat sheet.
func (c *Client) FetchWeekResults(ctx context.Context, season, week int) ([]usecase.ExternalGameResult, error) {
	events, err := c.fetchWeekEvents(ctx, season, week)
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalGameResult, 0, len(events))
	for _, event := range events {
		home, away := event.competitors()
		result := usecase.ExternalGameResult{
			ScoresID: event.ID,
			HomeTeam: home.Team.DisplayName,
			AwayTeam: away.Team.DisplayName,
			Kickoff:  event.kickoff(),
			Status:   event.status(),
		}
		if score, ok := parseScore(home.Score); ok {
			result.HomeScore = score
		}
		if score, ok := parseScore(away.Score); ok {
			result.AwayScore = score
		}

		if game.IsFinalStatus(result.Status) {
			stats, err := c.fetchPlayerStats(ctx, event.ID)
			if err != nil {
				// Scores settle most bet types; stat sheets can lag the
				// final whistle without blocking the sync.
				c.logger.WarnContext(ctx, "fetch player stats failed",
					"event_id", event.ID,
					"error", err,
				)
			} else {
				result.PlayerStats = stats
			}
		}

		out = append(out, result)
	}
	return out, nil
}

func (c *Client) fetchWeekEvents(ctx context.Context, season, week int) ([]scoreboardEvent, error) {
	if season <= 0 || week <= 0 {
		return nil, fmt.Errorf("season and week must be positive")
	}

	query := map[string]string{
		"dates":      strconv.Itoa(season),
		"week":       strconv.Itoa(week),
		"seasontype": "2",
	}

	loader := func(ctx context.Context) (any, error) {
		var envelope scoreboardEnvelope
		if _, err := c.doJSON(ctx, "/scoreboard", query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch scoreboard season=%d week=%d: %w", season, week, err)
		}
		return envelope.Events, nil
	}

	var (
		out any
		err error
	)
	if c.cache != nil {
		key := fmt.Sprintf("scoreboard:week:%d:%d", season, week)
		out, err = c.cache.GetOrLoad(ctx, key, loader)
	} else {
		out, err = loader(ctx)
	}
	if err != nil {
		return nil, err
	}

	events, ok := out.([]scoreboardEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return events, nil
}

func (c *Client) fetchPlayerStats(ctx context.Context, eventID string) ([]game.PlayerStatLine, error) {
	var envelope summaryEnvelope
	if _, err := c.doJSON(ctx, "/summary", map[string]string{"event": eventID}, &envelope); err != nil {
		return nil, err
	}

	out := make([]game.PlayerStatLine, 0, 64)
	for _, teamBlock := range envelope.Boxscore.Players {
		teamName := teamBlock.Team.DisplayName
		byPlayer := make(map[string]*game.PlayerStatLine)
		for _, category := range teamBlock.Statistics {
			yardsIdx := category.yardsIndex()
			if yardsIdx < 0 {
				continue
			}
			for _, athlete := range category.Athletes {
				name := strings.TrimSpace(athlete.Athlete.DisplayName)
				if name == "" || yardsIdx >= len(athlete.Stats) {
					continue
				}
				yards, err := strconv.ParseFloat(strings.TrimSpace(athlete.Stats[yardsIdx]), 64)
				if err != nil {
					continue
				}

				line := byPlayer[name]
				if line == nil {
					line = &game.PlayerStatLine{PlayerName: name, Team: teamName}
					byPlayer[name] = line
				}
				value := yards
				switch strings.ToLower(category.Name) {
				case "passing":
					line.PassingYards = &value
				case "rushing":
					line.RushingYards = &value
				case "receiving":
					line.ReceivingYards = &value
				}
			}
		}
		for _, line := range byPlayer {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "scoreboard circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: scores provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errScoreboardTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errScoreboardTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errScoreboardTransient, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: provider status=%d", errScoreboardTransient, resp.StatusCode)
		}
		return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
	}

	return raw, nil
}

func parseScore(raw string) (*int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	return &value, true
}
