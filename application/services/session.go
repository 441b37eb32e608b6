package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/application/ports"
	"canvas-backend/domain/config"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/valueobjects"
)

// Session holds the per-client interaction state: the client's viewport, an
// in-progress drag or pan, a pinch gesture, and a pending connection. One
// session exists per connected client; sessions never share state, only the
// canvas aggregate behind the repository is shared.
type Session struct {
	id         string
	canvasRepo ports.CanvasRepository
	mover      *commands.MoveNodeHandler
	connector  *commands.ConnectNodesHandler
	cfg        *config.DomainConfig
	logger     *zap.Logger

	mu       sync.Mutex
	viewport valueobjects.Viewport
	pinch    valueobjects.PinchGesture

	dragging   bool
	dragNodeID valueobjects.NodeID
	grabX      float64
	grabY      float64

	panning   bool
	lastX     float64
	lastY     float64

	connecting   bool
	connSourceID valueobjects.NodeID
	liveX        float64
	liveY        float64
}

// NewSession creates an interaction session with an identity viewport
func NewSession(
	id string,
	canvasRepo ports.CanvasRepository,
	mover *commands.MoveNodeHandler,
	connector *commands.ConnectNodesHandler,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *Session {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Session{
		id:         id,
		canvasRepo: canvasRepo,
		mover:      mover,
		connector:  connector,
		cfg:        cfg,
		logger:     logger.With(zap.String("session_id", id)),
		viewport:   valueobjects.NewViewport(),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Viewport returns the session's current viewport
func (s *Session) Viewport() valueobjects.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// PointerDownNode begins dragging a node. When the pointer went down on an
// interactive child (a button, an input, a resize handle) the drag is not
// started and the event belongs to the child.
func (s *Session) PointerDownNode(ctx context.Context, nodeID valueobjects.NodeID, clientX, clientY float64, interactiveChild bool) error {
	if interactiveChild {
		return nil
	}

	canvas, err := s.canvasRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return err
	}

	var pos valueobjects.Position
	found := false
	err = s.canvasRepo.View(ctx, canvas.ID(), func(c *aggregates.Canvas) error {
		if node := c.Node(nodeID); node != nil {
			pos = node.Position()
			found = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// grab offset keeps the pointer anchored to the same point on the node
	// for the whole drag, at any zoom level
	s.dragging = true
	s.dragNodeID = nodeID
	s.grabX = clientX - s.viewport.X - pos.X*s.viewport.Scale
	s.grabY = clientY - s.viewport.Y - pos.Y*s.viewport.Scale
	return nil
}

// PointerDownCanvas begins panning the viewport
func (s *Session) PointerDownCanvas(clientX, clientY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.panning = true
	s.lastX = clientX
	s.lastY = clientY
}

// PointerMove advances the active drag or pan. Node drags are committed to
// the shared canvas immediately so every client observes the motion.
func (s *Session) PointerMove(ctx context.Context, clientX, clientY float64) error {
	s.mu.Lock()

	if s.dragging {
		x := (clientX - s.viewport.X - s.grabX) / s.viewport.Scale
		y := (clientY - s.viewport.Y - s.grabY) / s.viewport.Scale
		nodeID := s.dragNodeID
		s.mu.Unlock()

		cmd := commands.MoveNodeCommand{NodeID: nodeID.String(), X: x, Y: y}
		if err := s.mover.Handle(ctx, cmd); err != nil {
			s.logger.Warn("drag move failed", zap.Error(err))
		}
		return nil
	}

	if s.panning {
		s.viewport = s.viewport.PanBy(clientX-s.lastX, clientY-s.lastY)
		s.lastX = clientX
		s.lastY = clientY
	}

	if s.connecting {
		canvasPoint := s.viewport.ToCanvas(clientX, clientY)
		s.liveX = canvasPoint.X
		s.liveY = canvasPoint.Y
	}

	s.mu.Unlock()
	return nil
}

// PointerUp ends the active drag or pan
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dragging = false
	s.panning = false
}

// ForceResetDrag abandons any in-flight drag and pan state. Sent by clients
// when the pointer is lost (window blur, pointercancel) so a node never
// sticks to a pointer that is no longer down.
func (s *Session) ForceResetDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dragging = false
	s.panning = false
	s.dragNodeID = valueobjects.NodeID{}
}

// Wheel handles a wheel event. With a zoom modifier held the wheel zooms
// around the pointer; otherwise it pans.
func (s *Session) Wheel(clientX, clientY, deltaX, deltaY float64, zoomModifier bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if zoomModifier {
		factor := 1 - deltaY*s.cfg.WheelZoomRate
		s.viewport = s.viewport.ZoomAtWithConfig(clientX, clientY, factor, s.cfg)
		return
	}

	s.viewport = s.viewport.PanBy(-deltaX, -deltaY)
}

// TouchBegin starts a pinch gesture from the initial two-finger distance
func (s *Session) TouchBegin(distance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pinch.Begin(distance, s.viewport.Scale)
}

// TouchMove advances a pinch gesture, zooming around the gesture center
func (s *Session) TouchMove(distance, centerX, centerY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pinch.Active() {
		return
	}

	target := s.pinch.TargetScale(distance)
	if s.viewport.Scale > 0 {
		s.viewport = s.viewport.ZoomAtWithConfig(centerX, centerY, target/s.viewport.Scale, s.cfg)
	}
}

// TouchEnd finishes the pinch gesture
func (s *Session) TouchEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pinch.End()
}

// StartConnection begins a pending connection from a source node. Ignored
// while another connection is pending; the first source wins until it is
// resolved or dropped.
func (s *Session) StartConnection(sourceID valueobjects.NodeID, clientX, clientY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connecting {
		return
	}

	s.connecting = true
	s.connSourceID = sourceID
	canvasPoint := s.viewport.ToCanvas(clientX, clientY)
	s.liveX = canvasPoint.X
	s.liveY = canvasPoint.Y
}

// LiveEndpoint returns the current free endpoint of the pending connection
// in canvas space
func (s *Session) LiveEndpoint() (valueobjects.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connecting {
		return valueobjects.Position{}, false
	}
	return valueobjects.NewPosition(s.liveX, s.liveY), true
}

// EndConnection resolves the pending connection. Released over a valid
// target the edge is committed; released anywhere else, or over an invalid
// target, the pending connection is dropped without error.
func (s *Session) EndConnection(ctx context.Context, targetID *valueobjects.NodeID) (*aggregates.Edge, error) {
	s.mu.Lock()
	if !s.connecting {
		s.mu.Unlock()
		return nil, nil
	}
	sourceID := s.connSourceID
	s.connecting = false
	s.connSourceID = valueobjects.NodeID{}
	s.mu.Unlock()

	if targetID == nil {
		return nil, nil
	}

	cmd := commands.ConnectNodesCommand{
		SourceID: sourceID.String(),
		TargetID: targetID.String(),
	}
	edge, err := s.connector.Handle(ctx, cmd)
	if err != nil {
		// invalid drops are part of normal interaction, not failures
		s.logger.Debug("pending connection dropped", zap.Error(err))
		return nil, nil
	}
	return edge, nil
}
