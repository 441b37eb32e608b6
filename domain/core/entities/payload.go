package entities

import (
	"fmt"
	"strings"
	"time"

	"canvas-backend/domain/core/valueobjects"
)

// NodeLookup resolves a node id to its entity, or nil when the node is gone.
// Group payloads use it to concatenate the content of their members.
type NodeLookup func(valueobjects.NodeID) *Node

// Payload is the kind-specific content of a node. Context extraction is a
// method on the payload rather than a switch scattered across call sites, so
// adding a kind touches one type.
type Payload interface {
	Kind() NodeKind
	// ContextText renders the payload as the text block fed into a connected
	// chat node's context.
	ContextText(lookup NodeLookup) string
}

// Sized is implemented by payloads whose box the user can resize
type Sized interface {
	Size() valueobjects.Size
}

const noTranscriptText = "No transcript available."

// VideoPayload holds a linked video and its fetched metadata
type VideoPayload struct {
	SourceURL  string `json:"source_url"`
	Title      string `json:"title"`
	Transcript string `json:"transcript,omitempty"`
}

func (p *VideoPayload) Kind() NodeKind { return KindVideo }

func (p *VideoPayload) ContextText(_ NodeLookup) string {
	transcript := p.Transcript
	if transcript == "" {
		transcript = noTranscriptText
	}
	return fmt.Sprintf("Video: %s\nURL: %s\nTranscript:\n%s", p.Title, p.SourceURL, transcript)
}

// DocumentFile is one uploaded file inside a document node
type DocumentFile struct {
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	Content    string    `json:"content,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DocumentPayload holds the files of a document node
type DocumentPayload struct {
	Files []DocumentFile `json:"files"`
}

func (p *DocumentPayload) Kind() NodeKind { return KindDocument }

func (p *DocumentPayload) ContextText(_ NodeLookup) string {
	blocks := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		blocks = append(blocks, fmt.Sprintf("Document: %s\n%s", f.Name, f.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// TextPayload is a free-form, user-resizable text box
type TextPayload struct {
	Title   string            `json:"title,omitempty"`
	Content string            `json:"content"`
	Box     valueobjects.Size `json:"box"`
}

func (p *TextPayload) Kind() NodeKind { return KindText }

func (p *TextPayload) Size() valueobjects.Size { return p.Box }

func (p *TextPayload) ContextText(_ NodeLookup) string {
	if p.Title == "" {
		return p.Content
	}
	return p.Title + "\n" + p.Content
}

// WebsitePage is one fetched page inside a website node
type WebsitePage struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// WebsitePayload holds the pages of a website node
type WebsitePayload struct {
	Pages []WebsitePage `json:"pages"`
}

func (p *WebsitePayload) Kind() NodeKind { return KindWebsite }

func (p *WebsitePayload) ContextText(_ NodeLookup) string {
	blocks := make([]string, 0, len(p.Pages))
	for _, page := range p.Pages {
		blocks = append(blocks, fmt.Sprintf("Website: %s (%s)\n%s", page.Title, page.URL, page.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// Recording is one captured clip inside an audio node
type Recording struct {
	Data       []byte    `json:"data"`
	MimeType   string    `json:"mime_type"`
	Duration   float64   `json:"duration"`
	Transcript string    `json:"transcript,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// AudioPayload holds the recordings of an audio node in insertion order
type AudioPayload struct {
	Recordings []Recording `json:"recordings"`
}

func (p *AudioPayload) Kind() NodeKind { return KindAudio }

func (p *AudioPayload) ContextText(_ NodeLookup) string {
	blocks := make([]string, 0, len(p.Recordings))
	for i, rec := range p.Recordings {
		transcript := rec.Transcript
		if transcript == "" {
			transcript = noTranscriptText
		}
		blocks = append(blocks, fmt.Sprintf("Recording %d:\n%s", i+1, transcript))
	}
	return strings.Join(blocks, "\n\n")
}

// ImageAttachment is one image inside an image node
type ImageAttachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     string `json:"data"` // base64
	Analysis string `json:"analysis,omitempty"`
}

// ImagePayload holds the images of an image node
type ImagePayload struct {
	Images []ImageAttachment `json:"images"`
}

func (p *ImagePayload) Kind() NodeKind { return KindImage }

func (p *ImagePayload) ContextText(_ NodeLookup) string {
	blocks := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		blocks = append(blocks, fmt.Sprintf("Image: %s\n%s", img.Name, img.Analysis))
	}
	return strings.Join(blocks, "\n\n")
}

// MessageRole identifies the author of a chat message
type MessageRole string

const (
	RoleUser   MessageRole = "user"
	RoleModel  MessageRole = "model"
	RoleSystem MessageRole = "system"
)

// ChatMessage is a single message in a chat node's conversation
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// ChatPayload holds the ordered conversation of a chat node
type ChatPayload struct {
	Messages    []ChatMessage `json:"messages"`
	PanelHeight float64       `json:"panel_height"`
}

func (p *ChatPayload) Kind() NodeKind { return KindChat }

// ContextText returns nothing: chat nodes are never a context source
func (p *ChatPayload) ContextText(_ NodeLookup) string { return "" }

// GroupPayload is a titled box whose membership is recomputed from bounding
// box containment whenever a node moves or resizes
type GroupPayload struct {
	Title     string                `json:"title"`
	Box       valueobjects.Size     `json:"box"`
	MemberIDs []valueobjects.NodeID `json:"member_ids"`
}

func (p *GroupPayload) Kind() NodeKind { return KindGroup }

func (p *GroupPayload) Size() valueobjects.Size { return p.Box }

// ContextText concatenates the content of all contained nodes
func (p *GroupPayload) ContextText(lookup NodeLookup) string {
	blocks := []string{fmt.Sprintf("Group: %s", p.Title)}
	if lookup != nil {
		for _, id := range p.MemberIDs {
			member := lookup(id)
			if member == nil {
				continue
			}
			if text := member.ContextText(lookup); text != "" {
				blocks = append(blocks, text)
			}
		}
	}
	return strings.Join(blocks, "\n\n")
}
