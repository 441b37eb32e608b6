package entities

import (
	pkgerrors "canvas-backend/pkg/errors"
)

// NodeKind is the tag distinguishing node variants on the canvas
type NodeKind string

const (
	KindVideo    NodeKind = "video"
	KindDocument NodeKind = "document"
	KindText     NodeKind = "text"
	KindWebsite  NodeKind = "website"
	KindAudio    NodeKind = "audio"
	KindImage    NodeKind = "image"
	KindChat     NodeKind = "chat"
	KindGroup    NodeKind = "group"
)

// AllKinds lists every node kind in a stable order
var AllKinds = []NodeKind{
	KindVideo, KindDocument, KindText, KindWebsite,
	KindAudio, KindImage, KindChat, KindGroup,
}

// ParseNodeKind validates and converts a raw kind string
func ParseNodeKind(s string) (NodeKind, error) {
	kind := NodeKind(s)
	if !kind.Valid() {
		return "", pkgerrors.NewValidationError("unknown node kind: " + s)
	}
	return kind, nil
}

// Valid reports whether the kind is one of the known variants
func (k NodeKind) Valid() bool {
	switch k {
	case KindVideo, KindDocument, KindText, KindWebsite,
		KindAudio, KindImage, KindChat, KindGroup:
		return true
	default:
		return false
	}
}

// CanConnectTo reports whether an edge from this kind to the target kind is
// allowed. Only chat nodes accept connections, and a chat node is never a
// source; every other kind may feed a chat node.
func (k NodeKind) CanConnectTo(target NodeKind) bool {
	return k != KindChat && target == KindChat
}
