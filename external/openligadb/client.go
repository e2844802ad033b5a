package openligadb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

const defaultBaseURL = "https://api.openligadb.de"

// ErrUnavailable is the uniform failure of the feed boundary: network errors,
// timeouts, non-2xx statuses and malformed bodies all wrap it. Retry policy
// beyond the client's own bounded attempts belongs to the caller.
var ErrUnavailable = crerr.New("openligadb unavailable")

var errTransient = crerr.New("openligadb transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// Location is the operating timezone naive feed timestamps are
	// interpreted in.
	Location *time.Location
	Logger   *logging.Logger
}

// Client is the OpenLigaDB REST binding. Pure I/O boundary; the precedence
// and derivation rules live in extract.go.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	loc        *time.Location
	logger     *logging.Logger
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
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: max(cfg.MaxRetries, 0),
		loc:        loc,
		logger:     logger,
	}
}

// Location returns the operating timezone the client parses naive feed
// timestamps in.
func (c *Client) Location() *time.Location {
	return c.loc
}

// FetchGroups lists the matchday groups of a season.
func (c *Client) FetchGroups(ctx context.Context, leagueShortcut string, seasonYear int) ([]Group, error) {
	var out []Group
	path := fmt.Sprintf("/getavailablegroups/%s/%d", leagueShortcut, seasonYear)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchSeasonMatches lists every match of a season.
func (c *Client) FetchSeasonMatches(ctx context.Context, leagueShortcut string, seasonYear int) ([]MatchRecord, error) {
	var out []MatchRecord
	path := fmt.Sprintf("/getmatchdata/%s/%d", leagueShortcut, seasonYear)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchMatchdayMatches lists the matches of one matchday.
func (c *Client) FetchMatchdayMatches(ctx context.Context, leagueShortcut string, seasonYear, groupOrderID int) ([]MatchRecord, error) {
	var out []MatchRecord
	path := fmt.Sprintf("/getmatchdata/%s/%d/%d", leagueShortcut, seasonYear, groupOrderID)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchLastChange returns the feed's change timestamp for one matchday.
func (c *Client) FetchLastChange(ctx context.Context, leagueShortcut string, seasonYear, groupOrderID int) (time.Time, error) {
	var raw string
	path := fmt.Sprintf("/getlastchangedate/%s/%d/%d", leagueShortcut, seasonYear, groupOrderID)
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return time.Time{}, err
	}

	changedAt, err := ParseFeedTime(raw, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s%s: %v", ErrUnavailable, c.baseURL, path, err)
	}
	return changedAt, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	fullURL := c.baseURL + path

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrUnavailable, fullURL, err)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: GET %s: decode payload: %v", ErrUnavailable, fullURL, err)
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
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
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
	c.logger.WarnContext(ctx, "openligadb request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
