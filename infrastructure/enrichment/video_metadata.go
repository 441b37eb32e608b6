package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	pkgerrors "canvas-backend/pkg/errors"
)

const (
	youtubeOEmbedURL = "https://www.youtube.com/oembed?format=json&url=%s"
	noembedURL       = "https://noembed.com/embed?url=%s"
)

// VideoMetadataProvider resolves video URLs to their metadata through the
// YouTube oEmbed endpoint, falling back to noembed for other hosts. Results
// are cached by URL.
type VideoMetadataProvider struct {
	client *http.Client
	cache  *lru.Cache[string, *ports.VideoMetadata]
	logger *zap.Logger
}

var _ ports.VideoMetadataProvider = (*VideoMetadataProvider)(nil)

// NewVideoMetadataProvider creates a metadata provider with an LRU cache
func NewVideoMetadataProvider(cacheSize int, logger *zap.Logger) (*VideoMetadataProvider, error) {
	cache, err := lru.New[string, *ports.VideoMetadata](cacheSize)
	if err != nil {
		return nil, err
	}
	return &VideoMetadataProvider{
		client: &http.Client{Timeout: 15 * time.Second},
		cache:  cache,
		logger: logger,
	}, nil
}

// Lookup fetches the title for a video URL
func (p *VideoMetadataProvider) Lookup(ctx context.Context, videoURL string) (*ports.VideoMetadata, error) {
	if meta, ok := p.cache.Get(videoURL); ok {
		return meta, nil
	}

	meta, err := p.oembed(ctx, fmt.Sprintf(youtubeOEmbedURL, url.QueryEscape(videoURL)))
	if err != nil {
		p.logger.Debug("youtube oembed failed, trying noembed",
			zap.String("url", videoURL),
			zap.Error(err),
		)
		meta, err = p.oembed(ctx, fmt.Sprintf(noembedURL, url.QueryEscape(videoURL)))
	}
	if err != nil {
		return nil, err
	}

	p.cache.Add(videoURL, meta)
	return meta, nil
}

func (p *VideoMetadataProvider) oembed(ctx context.Context, endpoint string) (*ports.VideoMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, pkgerrors.NewExternalError("oembed", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.NewExternalError("oembed", fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var payload struct {
		Title string `json:"title"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.NewExternalError("oembed", err.Error())
	}
	if payload.Error != "" {
		return nil, pkgerrors.NewExternalError("oembed", payload.Error)
	}
	if payload.Title == "" {
		return nil, pkgerrors.NewExternalError("oembed", "no title in response")
	}

	return &ports.VideoMetadata{Title: payload.Title}, nil
}
