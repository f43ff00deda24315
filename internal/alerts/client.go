package alerts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/mmcdole/gofeed"
)

const (
	// DefaultFeedURL is the GDACS global disaster alert RSS feed.
	DefaultFeedURL = "https://www.gdacs.org/xml/rss.xml"
	// LatestLimit is the number of headlines shown on the alerts panel.
	LatestLimit = 5
)

// ErrUpstream is returned when the feed cannot be fetched or parsed.
var ErrUpstream = errors.New("alert feed request failed")

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads the latest headlines of the global alert feed.
type Client struct {
	client    HTTPClient
	feedURL   string
	userAgent string
	parser    *gofeed.Parser
	log       *slog.Logger
}

// NewClient creates an alert feed client with its own HTTP client.
func NewClient(feedURL, userAgent string, timeout time.Duration, log *slog.Logger) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout}, feedURL, userAgent, log)
}

// NewClientWithHTTP allows injecting a custom HTTP client.
func NewClientWithHTTP(client HTTPClient, feedURL, userAgent string, log *slog.Logger) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}

	return &Client{
		client:    client,
		feedURL:   feedURL,
		userAgent: userAgent,
		parser:    gofeed.NewParser(),
		log:       log,
	}
}

// FetchLatest returns up to LatestLimit headlines. The feed is global, so center is
// accepted for symmetry with the other panels and ignored.
func (c *Client) FetchLatest(ctx context.Context, _ models.Coordinate) ([]models.AlertItem, error) {
	return c.Fetch(ctx, LatestLimit)
}

// Fetch considers the first limit entries in document order. Entries without a title,
// link or parseable publish date are skipped.
func (c *Client) Fetch(ctx context.Context, limit int) ([]models.AlertItem, error) {
	body, err := c.download(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := c.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse feed: %w", ErrUpstream, err)
	}

	entries := feed.Items
	if len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]models.AlertItem, 0, len(entries))
	for idx, entry := range entries {
		item, ok := toAlertItem(entry)
		if !ok {
			c.log.WarnContext(ctx, "Skipping malformed alert entry", "index", idx)
			continue
		}
		items = append(items, item)
	}

	c.log.DebugContext(ctx, "Alert headlines fetched", "entries", len(feed.Items), "kept", len(items))

	return items, nil
}

func (c *Client) download(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.ErrorContext(ctx, "Alert feed error", "status", resp.StatusCode, "body", string(snippet))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return resp.Body, nil
}

func toAlertItem(entry *gofeed.Item) (models.AlertItem, bool) {
	if entry == nil {
		return models.AlertItem{}, false
	}

	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" || entry.PublishedParsed == nil {
		return models.AlertItem{}, false
	}

	return models.AlertItem{
		Title:       title,
		Link:        link,
		PublishedAt: entry.PublishedParsed.UTC(),
	}, true
}
