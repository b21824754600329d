// Package quotes supplies the motivational quotes the quote scheduler
// posts. Quotes come from configured RSS/Atom feeds, with a built-in
// rotation as fallback so the scheduler always has something to say.
package quotes

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

// Feed is a named quote feed URL.
type Feed struct {
	Name string
	URL  string
}

var fallback = []string{
	"Remember why you started! Every small step counts.",
	"Small progress is still progress. Keep going!",
	"Take it one step at a time. You've got this!",
	"Break it down into smaller pieces. One concept at a time!",
	"Don't be afraid to ask for help - that's how we learn!",
	"You've come so far - don't stop now!",
}

// Provider rotates through quotes, refreshing from feeds periodically.
type Provider struct {
	client  *http.Client
	parser  *gofeed.Parser
	feeds   []Feed
	refresh time.Duration

	mu        sync.Mutex
	cache     []string
	idx       int
	fetchedAt time.Time
}

// NewProvider creates a provider over the given feeds. With no feeds it
// rotates through the built-in list.
func NewProvider(feeds []Feed) *Provider {
	return &Provider{
		client:  &http.Client{Timeout: 30 * time.Second},
		parser:  gofeed.NewParser(),
		feeds:   feeds,
		refresh: 6 * time.Hour,
	}
}

// Next returns the next quote in rotation, refreshing the feed cache
// when it has gone stale. Feed failures fall back to the built-in list
// rather than erroring: the scheduler should always have a quote.
func (p *Provider) Next(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.feeds) > 0 && time.Since(p.fetchedAt) > p.refresh {
		if fetched := p.fetchAll(ctx); len(fetched) > 0 {
			p.cache = fetched
			p.idx = 0
		}
		p.fetchedAt = time.Now()
	}

	pool := p.cache
	if len(pool) == 0 {
		pool = fallback
	}
	q := pool[p.idx%len(pool)]
	p.idx++
	return q
}

func (p *Provider) fetchAll(ctx context.Context) []string {
	var out []string
	for _, feed := range p.feeds {
		items, err := p.fetchFeed(ctx, feed)
		if err != nil {
			continue
		}
		out = append(out, items...)
	}
	return out
}

func (p *Provider) fetchFeed(ctx context.Context, feed Feed) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create quote request %s: %w", feed.Name, err)
	}
	req.Header.Set("User-Agent", "studybot/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quotes %s status %d", feed.Name, resp.StatusCode)
	}

	parsed, err := p.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse quotes %s: %w", feed.Name, err)
	}

	var out []string
	for _, entry := range parsed.Items {
		text := strings.TrimSpace(entry.Title)
		if text == "" {
			text = strings.TrimSpace(entry.Description)
		}
		if text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}
