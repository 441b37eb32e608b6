package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/infrastructure/persistence/memory"
)

type stubVideoProvider struct {
	meta *ports.VideoMetadata
	err  error
}

func (s *stubVideoProvider) Lookup(_ context.Context, _ string) (*ports.VideoMetadata, error) {
	return s.meta, s.err
}

type stubWebsiteFetcher struct {
	page *ports.FetchedPage
	err  error
}

func (s *stubWebsiteFetcher) Fetch(_ context.Context, _ string) (*ports.FetchedPage, error) {
	return s.page, s.err
}

type stubDocumentExtractor struct {
	content string
	err     error
}

func (s *stubDocumentExtractor) Extract(_ context.Context, _, _ string, _ []byte) (string, error) {
	return s.content, s.err
}

type stubVision struct {
	analysis string
	err      error
}

func (s *stubVision) Analyze(_ context.Context, _ []byte, _ string) (string, error) {
	return s.analysis, s.err
}

type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return s.transcript, s.err
}

type enrichmentFixture struct {
	repo   *memory.CanvasRepository
	canvas *aggregates.Canvas
}

func newEnrichmentFixture(t *testing.T) *enrichmentFixture {
	t.Helper()
	repo := memory.NewCanvasRepository(zap.NewNop())
	canvas, err := repo.GetOrCreateDefault(context.Background())
	require.NoError(t, err)
	return &enrichmentFixture{repo: repo, canvas: canvas}
}

func (f *enrichmentFixture) service(video ports.VideoMetadataProvider, websites ports.WebsiteFetcher, documents ports.DocumentExtractor, vision ports.VisionAnalyzer, transcriber ports.Transcriber) *EnrichmentService {
	return NewEnrichmentService(f.repo, video, websites, documents, vision, transcriber, zap.NewNop())
}

func (f *enrichmentFixture) addNode(t *testing.T, kind entities.NodeKind, payload entities.Payload) *entities.Node {
	t.Helper()
	node, err := entities.NewNode(kind, valueobjects.NewPosition(0, 0), payload)
	require.NoError(t, err)
	node.MarkLoading()
	err = f.repo.Update(context.Background(), f.canvas.ID(), func(c *aggregates.Canvas) error {
		return c.AddNode(node)
	})
	require.NoError(t, err)
	return node
}

func (f *enrichmentFixture) payload(t *testing.T, id valueobjects.NodeID) (entities.Payload, entities.NodeStatus) {
	t.Helper()
	var payload entities.Payload
	var status entities.NodeStatus
	err := f.repo.View(context.Background(), f.canvas.ID(), func(c *aggregates.Canvas) error {
		if node := c.Node(id); node != nil {
			payload = node.Payload()
			status = node.Status()
		}
		return nil
	})
	require.NoError(t, err)
	return payload, status
}

func TestEnrichmentService_EnrichVideo_Success(t *testing.T) {
	f := newEnrichmentFixture(t)
	svc := f.service(&stubVideoProvider{meta: &ports.VideoMetadata{Title: "Talk"}}, nil, nil, nil, nil)
	node := f.addNode(t, entities.KindVideo, &entities.VideoPayload{SourceURL: "https://youtube.com/watch?v=a"})

	svc.EnrichVideo(f.canvas.ID(), node.ID(), "https://youtube.com/watch?v=a")

	require.Eventually(t, func() bool {
		_, status := f.payload(t, node.ID())
		return status == entities.StatusReady
	}, time.Second, 5*time.Millisecond)

	payload, _ := f.payload(t, node.ID())
	video := payload.(*entities.VideoPayload)
	assert.Equal(t, "Talk", video.Title)
	assert.Equal(t, "https://youtube.com/watch?v=a", video.SourceURL)
}

func TestEnrichmentService_EnrichVideo_FailureDegradesWithPlaceholder(t *testing.T) {
	f := newEnrichmentFixture(t)
	svc := f.service(&stubVideoProvider{err: errors.New("oembed down")}, nil, nil, nil, nil)
	node := f.addNode(t, entities.KindVideo, &entities.VideoPayload{SourceURL: "https://youtube.com/watch?v=a"})

	svc.EnrichVideo(f.canvas.ID(), node.ID(), "https://youtube.com/watch?v=a")

	require.Eventually(t, func() bool {
		_, status := f.payload(t, node.ID())
		return status == entities.StatusDegraded
	}, time.Second, 5*time.Millisecond)

	payload, _ := f.payload(t, node.ID())
	assert.Equal(t, "YouTube Video", payload.(*entities.VideoPayload).Title)
}

func TestEnrichmentService_LateCompletionAfterDeleteIsAbsorbed(t *testing.T) {
	f := newEnrichmentFixture(t)
	svc := f.service(&stubVideoProvider{meta: &ports.VideoMetadata{Title: "Talk"}}, nil, nil, nil, nil)
	node := f.addNode(t, entities.KindVideo, &entities.VideoPayload{SourceURL: "https://youtube.com/watch?v=a"})

	err := f.repo.Update(context.Background(), f.canvas.ID(), func(c *aggregates.Canvas) error {
		return c.RemoveNode(node.ID())
	})
	require.NoError(t, err)

	svc.EnrichVideo(f.canvas.ID(), node.ID(), "https://youtube.com/watch?v=a")

	// The merge lands on a missing node and is silently dropped.
	assert.Never(t, func() bool {
		var present bool
		_ = f.repo.View(context.Background(), f.canvas.ID(), func(c *aggregates.Canvas) error {
			present = c.HasNode(node.ID())
			return nil
		})
		return present
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestEnrichmentService_FetchPage_MergesByURL(t *testing.T) {
	f := newEnrichmentFixture(t)
	svc := f.service(nil, &stubWebsiteFetcher{page: &ports.FetchedPage{
		URL: "https://example.com", Title: "Example", Content: "body text",
	}}, nil, nil, nil)
	node := f.addNode(t, entities.KindWebsite, &entities.WebsitePayload{Pages: []entities.WebsitePage{
		{URL: "https://example.com"},
	}})

	svc.FetchPage(f.canvas.ID(), node.ID(), "https://example.com")

	require.Eventually(t, func() bool {
		payload, _ := f.payload(t, node.ID())
		pages := payload.(*entities.WebsitePayload).Pages
		return len(pages) == 1 && pages[0].Content == "body text"
	}, time.Second, 5*time.Millisecond)
}

func TestEnrichmentService_FetchPage_FailureUsesPlaceholder(t *testing.T) {
	f := newEnrichmentFixture(t)
	svc := f.service(nil, &stubWebsiteFetcher{err: errors.New("timeout")}, nil, nil, nil)
	node := f.addNode(t, entities.KindWebsite, &entities.WebsitePayload{})

	svc.FetchPage(f.canvas.ID(), node.ID(), "https://example.com")

	require.Eventually(t, func() bool {
		payload, status := f.payload(t, node.ID())
		pages := payload.(*entities.WebsitePayload).Pages
		return status == entities.StatusDegraded &&
			len(pages) == 1 &&
			pages[0].Content == "Failed to fetch website content."
	}, time.Second, 5*time.Millisecond)
}

func TestEnrichmentService_ExtractFile_FillsMatchingFile(t *testing.T) {
	f := newEnrichmentFixture(t)
	svc := f.service(nil, nil, &stubDocumentExtractor{content: "extracted text"}, nil, nil)
	node := f.addNode(t, entities.KindDocument, &entities.DocumentPayload{Files: []entities.DocumentFile{
		{Name: "notes.txt", MimeType: "text/plain"},
	}})

	svc.ExtractFile(f.canvas.ID(), node.ID(), "notes.txt", "text/plain", []byte("raw"))

	require.Eventually(t, func() bool {
		payload, status := f.payload(t, node.ID())
		files := payload.(*entities.DocumentPayload).Files
		return status == entities.StatusReady && files[0].Content == "extracted text"
	}, time.Second, 5*time.Millisecond)
}

func TestEnrichmentService_TranscribeRecording_PerRecordingTranscripts(t *testing.T) {
	f := newEnrichmentFixture(t)
	svc := f.service(nil, nil, nil, nil, &stubTranscriber{transcript: "second clip words"})
	node := f.addNode(t, entities.KindAudio, &entities.AudioPayload{Recordings: []entities.Recording{
		{MimeType: "audio/webm", Transcript: "first clip words"},
		{MimeType: "audio/webm"},
	}})

	svc.TranscribeRecording(f.canvas.ID(), node.ID(), 1, []byte("audio"), "audio/webm")

	require.Eventually(t, func() bool {
		payload, _ := f.payload(t, node.ID())
		recs := payload.(*entities.AudioPayload).Recordings
		return recs[1].Transcript == "second clip words"
	}, time.Second, 5*time.Millisecond)

	payload, _ := f.payload(t, node.ID())
	recs := payload.(*entities.AudioPayload).Recordings
	assert.Equal(t, "first clip words", recs[0].Transcript)
}

func TestEnrichmentService_TranscribeRecording_OutOfRangeIndexIgnored(t *testing.T) {
	f := newEnrichmentFixture(t)
	svc := f.service(nil, nil, nil, nil, &stubTranscriber{transcript: "words"})
	node := f.addNode(t, entities.KindAudio, &entities.AudioPayload{Recordings: []entities.Recording{
		{MimeType: "audio/webm"},
	}})

	svc.TranscribeRecording(f.canvas.ID(), node.ID(), 5, []byte("audio"), "audio/webm")

	assert.Never(t, func() bool {
		payload, _ := f.payload(t, node.ID())
		return payload.(*entities.AudioPayload).Recordings[0].Transcript != ""
	}, 100*time.Millisecond, 10*time.Millisecond)
}
