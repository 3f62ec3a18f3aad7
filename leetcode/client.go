package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leetstreak/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultGraphQLURL is LeetCode's public GraphQL endpoint
const DefaultGraphQLURL = "https://leetcode.com/graphql"

const profileQuery = `
query getUserProfile($username: String!) {
  matchedUser(username: $username) {
    username
    submitStats {
      acSubmissionNum {
        difficulty
        count
      }
    }
  }
}`

// Bucket order of acSubmissionNum when labels are missing
var bucketOrder = []string{"All", "Easy", "Medium", "Hard"}

// Config configures the LeetCode client
type Config struct {
	URL     string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client fetches solved-problem counts from LeetCode
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewClient creates a new LeetCode client. Zero values fall back to a 10s timeout and no rate limit.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultGraphQLURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data *struct {
		MatchedUser *struct {
			Username    string `json:"username"`
			SubmitStats struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// FetchProfile returns the current counts for username. Every failure is logged and
// reported as unavailable.
func (c *Client) FetchProfile(ctx context.Context, username string) (*models.ProfileSnapshot, bool) {
	logger := log.WithField("lcUsername", username)

	snapshot, err := c.fetch(ctx, username)
	if err != nil {
		logger.WithError(err).Warn("LeetCode profile unavailable")
		return nil, false
	}

	logger.WithFields(log.Fields{
		"totalSolved": snapshot.TotalSolved,
	}).Debug("Fetched LeetCode profile")
	return snapshot, true
}

func (c *Client) fetch(ctx context.Context, username string) (*models.ProfileSnapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     profileQuery,
		Variables: map[string]any{"username": username},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if decoded.Data == nil || decoded.Data.MatchedUser == nil {
		return nil, fmt.Errorf("user not found")
	}

	buckets := decoded.Data.MatchedUser.SubmitStats.ACSubmissionNum
	if len(buckets) < len(bucketOrder) {
		return nil, fmt.Errorf("expected %d difficulty buckets, got %d", len(bucketOrder), len(buckets))
	}

	counts := make([]int, len(bucketOrder))
	for i, name := range bucketOrder {
		counts[i] = buckets[i].Count
		for _, b := range buckets {
			if strings.EqualFold(b.Difficulty, name) {
				counts[i] = b.Count
				break
			}
		}
	}

	for i, n := range counts {
		if n < 0 {
			return nil, fmt.Errorf("negative %s count %d", bucketOrder[i], n)
		}
	}
	if counts[0] < counts[1]+counts[2]+counts[3] {
		return nil, fmt.Errorf("total %d is below the sum of difficulty counts", counts[0])
	}

	return &models.ProfileSnapshot{
		TotalSolved:  counts[0],
		EasySolved:   counts[1],
		MediumSolved: counts[2],
		HardSolved:   counts[3],
		LastUpdated:  c.now(),
	}, nil
}
