package services

import (
	"context"
	"encoding/base64"
	"time"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// Placeholder content used when an enrichment fetch fails. The node stays on
// the canvas in a degraded state instead of disappearing.
const (
	fallbackVideoTitle     = "YouTube Video"
	fallbackTranscript     = "No transcript available."
	fallbackDocumentText   = "Failed to extract content."
	fallbackWebsiteContent = "Failed to fetch website content."
	fallbackImageAnalysis  = "Failed to analyze image."
)

const enrichmentTimeout = 60 * time.Second

// EnrichmentService runs the asynchronous fetches that fill node payloads in:
// video metadata, website content, document extraction, image analysis and
// audio transcription. Every result is merged back into the canvas by node
// id, so a node deleted while its fetch is in flight absorbs the completion
// silently.
type EnrichmentService struct {
	canvasRepo  ports.CanvasRepository
	video       ports.VideoMetadataProvider
	websites    ports.WebsiteFetcher
	documents   ports.DocumentExtractor
	vision      ports.VisionAnalyzer
	transcriber ports.Transcriber
	logger      *zap.Logger
}

// NewEnrichmentService creates an enrichment service
func NewEnrichmentService(
	canvasRepo ports.CanvasRepository,
	video ports.VideoMetadataProvider,
	websites ports.WebsiteFetcher,
	documents ports.DocumentExtractor,
	vision ports.VisionAnalyzer,
	transcriber ports.Transcriber,
	logger *zap.Logger,
) *EnrichmentService {
	return &EnrichmentService{
		canvasRepo:  canvasRepo,
		video:       video,
		websites:    websites,
		documents:   documents,
		vision:      vision,
		transcriber: transcriber,
		logger:      logger,
	}
}

// EnrichVideo looks up video metadata in the background
func (s *EnrichmentService) EnrichVideo(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, url string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
		defer cancel()

		meta, err := s.video.Lookup(ctx, url)
		if err != nil {
			s.logger.Warn("video metadata lookup failed",
				zap.String("node_id", nodeID.String()),
				zap.Error(err),
			)
			meta = &ports.VideoMetadata{Title: fallbackVideoTitle}
		}

		status := entities.StatusReady
		if err != nil {
			status = entities.StatusDegraded
		}

		mergeErr := s.canvasRepo.Update(ctx, canvasID, func(c *aggregates.Canvas) error {
			node := c.Node(nodeID)
			if node == nil {
				return nil
			}
			payload, ok := node.Payload().(*entities.VideoPayload)
			if !ok {
				return nil
			}

			updated := &entities.VideoPayload{
				SourceURL:  payload.SourceURL,
				Title:      meta.Title,
				Transcript: meta.Transcript,
			}
			return c.UpdateNodePayload(nodeID, updated, status)
		})
		if mergeErr != nil {
			s.logger.Error("video metadata merge failed", zap.Error(mergeErr))
		}
	}()
}

// FetchPage fetches a web page in the background and merges it into the
// node's page list by URL
func (s *EnrichmentService) FetchPage(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, url string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
		defer cancel()

		page, err := s.websites.Fetch(ctx, url)
		if err != nil {
			s.logger.Warn("website fetch failed",
				zap.String("node_id", nodeID.String()),
				zap.String("url", url),
				zap.Error(err),
			)
			page = &ports.FetchedPage{URL: url, Title: url, Content: fallbackWebsiteContent}
		}

		status := entities.StatusReady
		if err != nil {
			status = entities.StatusDegraded
		}

		mergeErr := s.canvasRepo.Update(ctx, canvasID, func(c *aggregates.Canvas) error {
			node := c.Node(nodeID)
			if node == nil {
				return nil
			}
			payload, ok := node.Payload().(*entities.WebsitePayload)
			if !ok {
				return nil
			}

			pages := append([]entities.WebsitePage{}, payload.Pages...)
			merged := false
			for i := range pages {
				if pages[i].URL == page.URL {
					pages[i].Title = page.Title
					pages[i].Content = page.Content
					pages[i].FetchedAt = time.Now()
					merged = true
					break
				}
			}
			if !merged {
				pages = append(pages, entities.WebsitePage{
					URL:       page.URL,
					Title:     page.Title,
					Content:   page.Content,
					FetchedAt: time.Now(),
				})
			}

			return c.UpdateNodePayload(nodeID, &entities.WebsitePayload{Pages: pages}, status)
		})
		if mergeErr != nil {
			s.logger.Error("website page merge failed", zap.Error(mergeErr))
		}
	}()
}

// ExtractFile extracts document text in the background and merges it into
// the matching file by name
func (s *EnrichmentService) ExtractFile(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, name, mimeType string, data []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
		defer cancel()

		content, err := s.documents.Extract(ctx, name, mimeType, data)
		if err != nil {
			s.logger.Warn("document extraction failed",
				zap.String("node_id", nodeID.String()),
				zap.String("file", name),
				zap.Error(err),
			)
			content = fallbackDocumentText
		}

		status := entities.StatusReady
		if err != nil {
			status = entities.StatusDegraded
		}

		mergeErr := s.canvasRepo.Update(ctx, canvasID, func(c *aggregates.Canvas) error {
			node := c.Node(nodeID)
			if node == nil {
				return nil
			}
			payload, ok := node.Payload().(*entities.DocumentPayload)
			if !ok {
				return nil
			}

			files := append([]entities.DocumentFile{}, payload.Files...)
			for i := range files {
				if files[i].Name == name && files[i].Content == "" {
					files[i].Content = content
					break
				}
			}

			return c.UpdateNodePayload(nodeID, &entities.DocumentPayload{Files: files}, status)
		})
		if mergeErr != nil {
			s.logger.Error("document content merge failed", zap.Error(mergeErr))
		}
	}()
}

// AnalyzeImage runs vision analysis in the background and merges the
// description into the matching image by name
func (s *EnrichmentService) AnalyzeImage(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, name string, data string, mimeType string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
		defer cancel()

		analysis := fallbackImageAnalysis
		var err error
		decoded, decodeErr := base64.StdEncoding.DecodeString(data)
		if decodeErr != nil {
			err = decodeErr
		} else {
			analysis, err = s.vision.Analyze(ctx, decoded, mimeType)
			if err != nil {
				analysis = fallbackImageAnalysis
			}
		}
		if err != nil {
			s.logger.Warn("image analysis failed",
				zap.String("node_id", nodeID.String()),
				zap.String("image", name),
				zap.Error(err),
			)
		}

		status := entities.StatusReady
		if err != nil {
			status = entities.StatusDegraded
		}

		mergeErr := s.canvasRepo.Update(ctx, canvasID, func(c *aggregates.Canvas) error {
			node := c.Node(nodeID)
			if node == nil {
				return nil
			}
			payload, ok := node.Payload().(*entities.ImagePayload)
			if !ok {
				return nil
			}

			images := append([]entities.ImageAttachment{}, payload.Images...)
			for i := range images {
				if images[i].Name == name && images[i].Analysis == "" {
					images[i].Analysis = analysis
					break
				}
			}

			return c.UpdateNodePayload(nodeID, &entities.ImagePayload{Images: images}, status)
		})
		if mergeErr != nil {
			s.logger.Error("image analysis merge failed", zap.Error(mergeErr))
		}
	}()
}

// TranscribeRecording transcribes an audio clip in the background and merges
// the transcript into the recording at the given index. Each recording keeps
// its own transcript.
func (s *EnrichmentService) TranscribeRecording(canvasID aggregates.CanvasID, nodeID valueobjects.NodeID, index int, data []byte, mimeType string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
		defer cancel()

		transcript, err := s.transcriber.Transcribe(ctx, data, mimeType)
		if err != nil {
			s.logger.Warn("transcription failed",
				zap.String("node_id", nodeID.String()),
				zap.Int("index", index),
				zap.Error(err),
			)
			transcript = fallbackTranscript
		}

		status := entities.StatusReady
		if err != nil {
			status = entities.StatusDegraded
		}

		mergeErr := s.canvasRepo.Update(ctx, canvasID, func(c *aggregates.Canvas) error {
			node := c.Node(nodeID)
			if node == nil {
				return nil
			}
			payload, ok := node.Payload().(*entities.AudioPayload)
			if !ok {
				return nil
			}
			if index < 0 || index >= len(payload.Recordings) {
				return nil
			}

			recordings := append([]entities.Recording{}, payload.Recordings...)
			recordings[index].Transcript = transcript

			return c.UpdateNodePayload(nodeID, &entities.AudioPayload{Recordings: recordings}, status)
		})
		if mergeErr != nil {
			s.logger.Error("transcript merge failed", zap.Error(mergeErr))
		}
	}()
}
