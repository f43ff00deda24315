package alerts

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/models"
)

const (
	// Placeholder is shown when the feed has no usable entries.
	Placeholder = "No recent emergency alerts."
	// PublishedLayout matches an en-US date-time rendering.
	PublishedLayout = "1/2/2006, 3:04:05 PM"
)

// Line renders one headline as a list item linking to the alert page in a new tab.
// Links that are not http(s) are dropped and the title is shown as plain text.
func Line(item models.AlertItem, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	published := item.PublishedAt.In(loc).Format(PublishedLayout)
	title := html.EscapeString(item.Title)
	if !safeLink(item.Link) {
		return fmt.Sprintf(`<strong>%s</strong><br> <small>%s</small>`, title, published)
	}

	return fmt.Sprintf(`<a href="%s" target="_blank"><strong>%s</strong></a><br> <small>%s</small>`,
		html.EscapeString(item.Link), title, published)
}

func safeLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)

	return scheme == "http" || scheme == "https"
}

// Lines renders items in order.
func Lines(items []models.AlertItem, loc *time.Location) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line(item, loc))
	}

	return lines
}
