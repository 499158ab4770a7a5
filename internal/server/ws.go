package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/proofme/internal/attempt"
	"github.com/ayusman/proofme/internal/hook"
	"github.com/ayusman/proofme/internal/landmark"
	"github.com/ayusman/proofme/internal/liveness"
	"github.com/ayusman/proofme/internal/logger"
	"github.com/ayusman/proofme/internal/store"
)

// MaxMessageBytes bounds a single client message. A full face mesh frame is
// well under this.
const MaxMessageBytes = 1 << 20

// Client message types.
const (
	MessageStart = "start"
	MessageReset = "reset"
	MessageFrame = "frame"
	MessageError = "error"
)

// Server message types.
const (
	MessageState             = "state"
	MessageChallengeComplete = "challenge_complete"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ClientMessage is a message from the browser. Landmarks is only read for
// frames; an empty or absent list means no face. Message carries the reason
// of an upstream error.
type ClientMessage struct {
	Type      string       `json:"type"`
	Landmarks landmark.Set `json:"landmarks,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// ServerMessage is a message to the browser.
type ServerMessage struct {
	Type      string              `json:"type"`
	State     *liveness.State     `json:"state,omitempty"`
	Index     *int                `json:"index,omitempty"`
	Challenge *liveness.Challenge `json:"challenge,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// LivenessConfig configures the per-connection trackers.
type LivenessConfig struct {
	Challenges []liveness.Challenge
	Options    liveness.Options
	Store      *store.Store
	Hooks      *hook.Dispatcher
}

// LivenessHandler runs one verification session per websocket connection.
// Frames are processed on the connection's read goroutine, which is also the
// only writer.
type LivenessHandler struct {
	config LivenessConfig
	log    *zap.Logger
}

// NewLivenessHandler creates a new LivenessHandler.
func NewLivenessHandler(config LivenessConfig) *LivenessHandler {
	return &LivenessHandler{
		config: config,
		log:    logger.Named("liveness"),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LivenessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxMessageBytes)

	c := &connection{conn: conn, log: h.log}

	opts := h.config.Options
	opts.OnChange = nil
	opts.OnChallengeComplete = func(index int, ch liveness.Challenge) {
		c.send(ServerMessage{Type: MessageChallengeComplete, Index: &index, Challenge: &ch})
	}

	tracker, err := attempt.New(h.config.Challenges, opts, h.config.Store, h.config.Hooks)
	if err != nil {
		h.log.Error("failed to create tracker", zap.Error(err))
		c.send(ServerMessage{Type: MessageError, Error: "session unavailable"})
		return
	}
	defer tracker.Close()

	c.sendState(tracker.State())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket closed", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send(ServerMessage{Type: MessageError, Error: "invalid message"})
			continue
		}

		var state liveness.State
		switch msg.Type {
		case MessageStart:
			state = tracker.Start()
		case MessageReset:
			state = tracker.Reset()
		case MessageFrame:
			state = tracker.ProcessFrame(msg.Landmarks)
		case MessageError:
			reason := msg.Message
			if reason == "" {
				reason = "client error"
			}
			state = tracker.Abort(reason)
			c.send(ServerMessage{Type: MessageError, Error: reason})
		default:
			c.send(ServerMessage{Type: MessageError, Error: "unknown message type: " + msg.Type})
			continue
		}

		c.sendState(state)
	}
}

type connection struct {
	conn *websocket.Conn
	log  *zap.Logger
}

func (c *connection) sendState(st liveness.State) {
	c.send(ServerMessage{Type: MessageState, State: &st})
}

func (c *connection) send(msg ServerMessage) {
	if err := c.conn.WriteJSON(msg); err != nil {
		c.log.Debug("failed to write message", zap.String("type", msg.Type), zap.Error(err))
	}
}
