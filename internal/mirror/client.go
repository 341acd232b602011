package mirror

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/davoli/specchio/internal/errors"
	"github.com/davoli/specchio/internal/logging"
)

// DefaultStatusURL is the mirror status feed of the Arch Linux project.
const DefaultStatusURL = "https://www.archlinux.org/mirrors/status/json/"

// DefaultTimeout bounds a single feed download.
const DefaultTimeout = 30 * time.Second

// userAgent identifies specchio to the status service.
const userAgent = "specchio/1.0"

// Client downloads the mirror status feed.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *logging.Logger
}

// NewClient creates a Client for the feed at url. An empty url selects
// [DefaultStatusURL], a zero timeout selects [DefaultTimeout], and a nil
// logger discards log output.
func NewClient(url string, timeout time.Duration, logger *logging.Logger) *Client {
	if url == "" {
		url = DefaultStatusURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     logger.WithComponent("status"),
	}
}

// URL returns the feed URL the client fetches from.
func (c *Client) URL() string {
	return c.url
}

// Fetch downloads and decodes the mirror status feed.
func (c *Client) Fetch(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.NewStatusError("invalid status URL", err).WithURL(c.url)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("fetching mirror status", "url", c.url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewStatusError("request failed", err).WithURL(c.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStatusError("unexpected response", nil).
			WithURL(c.url).
			WithHTTPStatus(resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, errors.NewStatusError("cannot decode status feed", err).WithURL(c.url)
	}

	c.logger.Debug("received mirror status",
		"mirrors", len(status.URLs),
		"version", status.Version,
		"last_check", status.LastCheck)

	return &status, nil
}
