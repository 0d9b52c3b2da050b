package docs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

// BodyCache is the transport-layer TTL cache in front of page and feed
// fetches. A nil cache disables caching.
type BodyCache interface {
	GetFetchedBody(ctx context.Context, url string) (string, error)
	CacheFetchedBody(ctx context.Context, url, body string, ttl time.Duration) error
}

// Fetcher retrieves allow-listed pages and feeds and turns them into
// scoring candidates. Pages go through colly, feeds through a plain HTTP
// client and the feed parser.
type Fetcher struct {
	collector *colly.Collector
	client    *http.Client
	cache     BodyCache
	cacheTTL  time.Duration
	userAgent string
	timeout   time.Duration
	logger    *logrus.Logger
}

func NewFetcher(timeout time.Duration, userAgent string, cache BodyCache, cacheTTL time.Duration, logger *logrus.Logger) *Fetcher {
	// Revisits must stay allowed: the resolver fetches the same allow-listed
	// URLs on every question, and the visited-URL store is shared by clones.
	c := colly.NewCollector(colly.UserAgent(userAgent), colly.AllowURLRevisit())
	c.SetRequestTimeout(timeout)
	return &Fetcher{
		collector: c,
		client:    &http.Client{Timeout: timeout},
		cache:     cache,
		cacheTTL:  cacheTTL,
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
	}
}

// IsFeedURL reports whether an allow-list entry should be parsed as a
// syndication feed rather than a whole page.
func IsFeedURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasSuffix(lower, "/rss") ||
		strings.Contains(lower, "rss") ||
		strings.Contains(lower, "feed")
}

// FetchAll fetches every allow-listed URL and returns the resulting
// documents. The fetches are independent and run concurrently; a failure on
// one URL is logged and swallowed, never aborting the rest.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []Document {
	var (
		mu  sync.Mutex
		out []Document
		wg  sync.WaitGroup
	)
	for _, u := range urls {
		u := u
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetched, err := f.fetchOne(ctx, u)
			if err != nil {
				f.logger.WithError(err).WithField("url", u).Warn("Skipping unreachable document source")
				return
			}
			mu.Lock()
			out = append(out, fetched...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]Document, error) {
	if IsFeedURL(url) {
		return f.fetchFeed(ctx, url)
	}
	doc, err := f.fetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return []Document{doc}, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) ([]Document, error) {
	body, err := f.fetchBody(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseFeed(body, url), nil
}

func (f *Fetcher) fetchPage(ctx context.Context, url string) (Document, error) {
	body, ok := f.cachedBody(ctx, url)
	if !ok {
		fetched, err := f.visit(url)
		if err != nil {
			return Document{}, err
		}
		body = fetched
		f.storeBody(ctx, url, body)
	}

	doc := Document{
		URL:    url,
		Title:  pageTitle(body),
		Joined: ExtractText(body),
	}
	doc.Snippet = truncateRunes(doc.Joined, 160)
	return doc, nil
}

// visit retrieves one page body through colly. The collector is cloned per
// call so response callbacks never leak between URLs.
func (f *Fetcher) visit(url string) (string, error) {
	c := f.collector.Clone()
	c.SetRequestTimeout(f.timeout)

	var body string
	var visitErr error
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("visit %s: %w", url, err)
	}
	c.Wait()
	if visitErr != nil {
		return "", fmt.Errorf("visit %s: %w", url, visitErr)
	}
	return body, nil
}

func (f *Fetcher) fetchBody(ctx context.Context, url string) (string, error) {
	if body, ok := f.cachedBody(ctx, url); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	body := string(raw)
	f.storeBody(ctx, url, body)
	return body, nil
}

func (f *Fetcher) cachedBody(ctx context.Context, url string) (string, bool) {
	if f.cache == nil {
		return "", false
	}
	body, err := f.cache.GetFetchedBody(ctx, url)
	if err != nil {
		return "", false
	}
	return body, true
}

func (f *Fetcher) storeBody(ctx context.Context, url, body string) {
	if f.cache == nil {
		return
	}
	if err := f.cache.CacheFetchedBody(ctx, url, body, f.cacheTTL); err != nil {
		f.logger.WithError(err).WithField("url", url).Warn("Failed to cache fetched body")
	}
}

func pageTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
