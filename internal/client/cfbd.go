package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cfbpoll/rankings/internal/metrics"
	"cfbpoll/rankings/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Options tunes the client's retry and pacing behaviour
type Options struct {
	Timeout    time.Duration
	RateLimit  float64 // requests per second
	Burst      int
	MaxRetries int
	RetryDelay time.Duration
}

// Client is the CollegeFootballData API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a new CollegeFootballData API client
func NewClient(baseURL, apiKey string, opts Options) *Client {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request to the API with retry logic and rate limiting
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", endpoint).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, status, err := c.do(ctx, endpoint, params)
		if err != nil {
			lastErr = err
			// Retry on network errors
			if attempt < c.maxRetries {
				continue
			}
			break
		}

		switch status {
		case http.StatusOK:
			log.Debug().
				Str("url", endpoint).
				Int("status", status).
				Int("size", len(body)).
				Msg("API request successful")
			metrics.RecordAPICall(path, "success", time.Since(start).Seconds())
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("API returned retryable status %d: %s", status, string(body))
			if attempt < c.maxRetries {
				log.Warn().
					Str("url", endpoint).
					Int("status", status).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}

		case http.StatusUnauthorized, http.StatusForbidden:
			metrics.RecordAPICall(path, "auth_error", time.Since(start).Seconds())
			return nil, fmt.Errorf("API authentication failed (status %d): %s", status, string(body))

		default:
			metrics.RecordAPICall(path, "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("API returned status %d: %s", status, string(body))
		}
	}

	metrics.RecordAPICall(path, "error", time.Since(start).Seconds())
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "CFBPoll-Rankings/1.0")
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	log.Debug().
		Str("url", endpoint).
		Str("query", req.URL.RawQuery).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string, params url.Values, what string) (T, error) {
	var out T
	body, err := c.get(ctx, path, params)
	if err != nil {
		return out, fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to unmarshal %s: %w", what, err)
	}
	return out, nil
}

// FetchTeams fetches FBS teams for a season
func (c *Client) FetchTeams(ctx context.Context, year int) ([]models.TeamInput, error) {
	params := url.Values{"year": {strconv.Itoa(year)}}
	return getJSON[[]models.TeamInput](ctx, c, "teams/fbs", params, "teams")
}

// FetchGames fetches games for a season. A zero week returns every week of seasonType.
func (c *Client) FetchGames(ctx context.Context, year int, seasonType string, week int) ([]models.GameInput, error) {
	params := url.Values{"year": {strconv.Itoa(year)}}
	if seasonType != "" {
		params.Set("seasonType", seasonType)
	}
	if week > 0 {
		params.Set("week", strconv.Itoa(week))
	}
	return getJSON[[]models.GameInput](ctx, c, "games", params, "games")
}

// FetchCalendar fetches the week calendar for a season
func (c *Client) FetchCalendar(ctx context.Context, year int) ([]models.CalendarWeekInput, error) {
	params := url.Values{"year": {strconv.Itoa(year)}}
	return getJSON[[]models.CalendarWeekInput](ctx, c, "calendar", params, "calendar")
}

// FetchTeamSeasonStats fetches season statistics for every team, optionally capped at a week
func (c *Client) FetchTeamSeasonStats(ctx context.Context, year, endWeek int) ([]models.TeamStatInput, error) {
	params := url.Values{"year": {strconv.Itoa(year)}}
	if endWeek > 0 {
		params.Set("endWeek", strconv.Itoa(endWeek))
	}
	return getJSON[[]models.TeamStatInput](ctx, c, "stats/season", params, "team season stats")
}

// FetchAdvancedSeasonStats fetches advanced season statistics, optionally capped at a week
func (c *Client) FetchAdvancedSeasonStats(ctx context.Context, year, endWeek int) ([]models.AdvancedStatsInput, error) {
	params := url.Values{"year": {strconv.Itoa(year)}}
	if endWeek > 0 {
		params.Set("endWeek", strconv.Itoa(endWeek))
	}
	return getJSON[[]models.AdvancedStatsInput](ctx, c, "stats/season/advanced", params, "advanced season stats")
}
