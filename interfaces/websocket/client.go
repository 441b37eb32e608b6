package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"canvas-backend/application/services"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/pkg/common"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Send buffer size
	sendBufferSize = 256
)

// Client is one WebSocket connection with its interaction session. Pointer,
// wheel, touch and connection gestures arrive as messages and are dispatched
// to the session; canvas updates flow back through the hub.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	session  *services.Session
	sessions *services.SessionManager
	logger   *zap.Logger
}

// inboundMessage is the wire format for client interaction events
type inboundMessage struct {
	Type             string  `json:"type"`
	NodeID           string  `json:"node_id,omitempty"`
	SourceID         string  `json:"source_id,omitempty"`
	TargetID         string  `json:"target_id,omitempty"`
	ClientX          float64 `json:"client_x"`
	ClientY          float64 `json:"client_y"`
	DeltaX           float64 `json:"delta_x"`
	DeltaY           float64 `json:"delta_y"`
	Distance         float64 `json:"distance"`
	CenterX          float64 `json:"center_x"`
	CenterY          float64 `json:"center_y"`
	InteractiveChild bool    `json:"interactive_child"`
	ZoomModifier     bool    `json:"zoom_modifier"`
}

// NewClient creates a WebSocket client with a fresh interaction session
func NewClient(hub *Hub, conn *websocket.Conn, sessions *services.SessionManager, logger *zap.Logger) *Client {
	session := sessions.Create()
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		session:  session,
		sessions: sessions,
		logger:   logger.With(zap.String("session_id", session.ID())),
	}
}

// Start begins the client's read and write pumps
func (c *Client) Start() {
	c.hub.register <- c

	go c.writePump()
	go c.readPump()

	c.sendViewport()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("read error", zap.Error(err))
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches one interaction event to the session
func (c *Client) handleMessage(raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logger.Debug("unparseable message", zap.Error(err))
		return
	}

	ctx := common.WithSessionID(context.Background(), c.session.ID())

	switch msg.Type {
	case "pointer_down_node":
		nodeID, err := valueobjects.NewNodeIDFromString(msg.NodeID)
		if err != nil {
			return
		}
		if err := c.session.PointerDownNode(ctx, nodeID, msg.ClientX, msg.ClientY, msg.InteractiveChild); err != nil {
			c.logger.Warn("pointer down failed", zap.Error(err))
		}

	case "pointer_down_canvas":
		c.session.PointerDownCanvas(msg.ClientX, msg.ClientY)

	case "pointer_move":
		if err := c.session.PointerMove(ctx, msg.ClientX, msg.ClientY); err != nil {
			c.logger.Warn("pointer move failed", zap.Error(err))
		}
		c.sendViewport()

	case "pointer_up":
		c.session.PointerUp()

	case "force_reset":
		c.session.ForceResetDrag()

	case "wheel":
		c.session.Wheel(msg.ClientX, msg.ClientY, msg.DeltaX, msg.DeltaY, msg.ZoomModifier)
		c.sendViewport()

	case "touch_begin":
		c.session.TouchBegin(msg.Distance)

	case "touch_move":
		c.session.TouchMove(msg.Distance, msg.CenterX, msg.CenterY)
		c.sendViewport()

	case "touch_end":
		c.session.TouchEnd()

	case "connect_start":
		sourceID, err := valueobjects.NewNodeIDFromString(msg.SourceID)
		if err != nil {
			return
		}
		c.session.StartConnection(sourceID, msg.ClientX, msg.ClientY)

	case "connect_end":
		var targetID *valueobjects.NodeID
		if msg.TargetID != "" {
			id, err := valueobjects.NewNodeIDFromString(msg.TargetID)
			if err == nil {
				targetID = &id
			}
		}
		if _, err := c.session.EndConnection(ctx, targetID); err != nil {
			c.logger.Warn("connection failed", zap.Error(err))
		}

	case "pong":

	default:
		c.logger.Debug("unknown message type", zap.String("type", msg.Type))
	}
}

// sendViewport pushes the session's viewport back to its own client only
func (c *Client) sendViewport() {
	payload, err := json.Marshal(map[string]interface{}{
		"type": "viewport",
		"data": c.session.Viewport(),
	})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// upgrader upgrades HTTP requests to WebSocket connections. Origin checks
// are handled by the CORS layer in front of the router.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and starts a client
func ServeWS(hub *Hub, sessions *services.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", zap.Error(err))
			return
		}
		NewClient(hub, conn, sessions, logger).Start()
	}
}
