package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKey = "scanner:top-stocks"

// TopStocks is the latest scan result: the payload is displayed as-is, the
// client only extracts the most recent date key.
type TopStocks struct {
	LastUpdated string          `json:"last_updated"`
	Stocks      json.RawMessage `json:"stocks"`
}

// Client fetches the weekly top-stocks scan from the external feed. The
// feed returns a JSON object keyed by date strings; failures here never
// affect report computation and are independently retryable.
type Client struct {
	httpClient *http.Client
	redis      *redis.Client
	url        string
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewClient creates a scanner feed client. The redis client is optional;
// without it every call hits the feed directly.
func NewClient(url string, rdb *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		redis:      rdb,
		url:        url,
		cacheTTL:   cacheTTL,
		logger:     logger.With().Str("component", "scanner").Logger(),
	}
}

// TopStocks returns the latest scan payload, served from the Redis cache
// when fresh. Cache errors fall through to a live fetch.
func (c *Client) TopStocks(ctx context.Context) (*TopStocks, error) {
	if c.redis != nil {
		cached, err := c.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var result TopStocks
			if err := json.Unmarshal(cached, &result); err != nil {
				c.logger.Warn().Err(err).Msg("discarding unreadable cached scan")
			} else {
				return &result, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("scan cache read failed")
		}
	}

	result, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		data, err := json.Marshal(result)
		if err == nil {
			if err := c.redis.Set(ctx, cacheKey, data, c.cacheTTL).Err(); err != nil {
				c.logger.Warn().Err(err).Msg("scan cache write failed")
			}
		}
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context) (*TopStocks, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build scan request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scan feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scan feed returned status %d", resp.StatusCode)
	}

	// The feed is an object keyed by date strings; the payload under the
	// latest key is passed through untouched.
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode scan feed: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("scan feed returned no entries")
	}

	var latest string
	for key := range payload {
		if key > latest {
			latest = key
		}
	}

	return &TopStocks{LastUpdated: latest, Stocks: payload[latest]}, nil
}
