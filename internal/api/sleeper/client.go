package sleeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/omarshaarawi/sleeperstats/internal/config"
)

const defaultBaseURL = "https://api.sleeper.app/v1"

// ErrNotFound is returned for non-2xx statuses and for a literal null body,
// which Sleeper sends for unknown ids.
var ErrNotFound = errors.New("sleeper: not found")

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg config.SleeperAPI) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
	}
}

func (c *Client) Get(ctx context.Context, endpoint string, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", ErrNotFound, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: %s returned no data", ErrNotFound, endpoint)
	}

	if err := json.Unmarshal(trimmed, result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
