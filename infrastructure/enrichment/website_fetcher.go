package enrichment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	pkgerrors "canvas-backend/pkg/errors"
)

const maxPageBytes = 2 << 20 // 2 MiB of HTML is plenty for context extraction

var (
	titleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptRe = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// WebsiteFetcher downloads pages and strips them to readable text. Fetched
// pages are cached by URL so re-adding the same page is free.
type WebsiteFetcher struct {
	client *http.Client
	cache  *lru.Cache[string, *ports.FetchedPage]
	logger *zap.Logger
}

var _ ports.WebsiteFetcher = (*WebsiteFetcher)(nil)

// NewWebsiteFetcher creates a website fetcher with an LRU page cache
func NewWebsiteFetcher(cacheSize int, logger *zap.Logger) (*WebsiteFetcher, error) {
	cache, err := lru.New[string, *ports.FetchedPage](cacheSize)
	if err != nil {
		return nil, err
	}
	return &WebsiteFetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache,
		logger: logger,
	}, nil
}

// Fetch downloads a page and returns its title and readable text
func (f *WebsiteFetcher) Fetch(ctx context.Context, url string) (*ports.FetchedPage, error) {
	if page, ok := f.cache.Get(url); ok {
		return page, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid URL: " + url)
	}
	req.Header.Set("User-Agent", "canvas-backend/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgerrors.NewExternalError("website", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pkgerrors.NewExternalError("website", fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, pkgerrors.NewExternalError("website", err.Error())
	}

	page := &ports.FetchedPage{
		URL:     url,
		Title:   extractTitle(string(body), url),
		Content: extractText(string(body)),
	}

	f.cache.Add(url, page)
	f.logger.Debug("page fetched", zap.String("url", url), zap.Int("content_len", len(page.Content)))
	return page, nil
}

func extractTitle(html, fallback string) string {
	if m := titleRe.FindStringSubmatch(html); len(m) == 2 {
		title := strings.TrimSpace(spaceRe.ReplaceAllString(m[1], " "))
		if title != "" {
			return title
		}
	}
	return fallback
}

func extractText(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}
