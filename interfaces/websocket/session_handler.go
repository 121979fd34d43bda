package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"relatree/application/ports"
	"relatree/application/projection"
	"relatree/application/session"
	"relatree/domain/tree"
	apperrors "relatree/pkg/errors"
)

// Gesture message types (client → server).
const (
	GestureOpenTree     = "OPEN_TREE"
	GestureCloseTree    = "CLOSE_TREE"
	GestureBeginConnect = "BEGIN_CONNECT"
	GestureNodeClick    = "NODE_CLICK"
	GestureCanvasClick  = "CANVAS_CLICK"
	GestureDragStart    = "DRAG_START"
	GestureDragMove     = "DRAG_MOVE"
	GestureDragEnd      = "DRAG_END"
)

// Session reply types (server → client).
const (
	EventTreeOpened   = "TREE_OPENED"
	EventSessionState = "SESSION_STATE"
	EventSessionError = "SESSION_ERROR"
)

type gesturePayload struct {
	TreeID         string  `json:"treeId,omitempty"`
	NodeID         string  `json:"nodeId,omitempty"`
	ConnectionType string  `json:"connectionType,omitempty"`
	X              float64 `json:"x,omitempty"`
	Y              float64 `json:"y,omitempty"`
}

type sessionState struct {
	Phase         string `json:"phase"`
	PendingSource string `json:"pendingSource,omitempty"`
	PendingType   string `json:"pendingType,omitempty"`
	LastOutcome   string `json:"lastOutcome,omitempty"`
}

// SessionHandler runs one EditSession per connection, driven by gesture
// messages. Drag moves stay in the session's view model; positions persist
// on drag end, connections on a completed pick, both through the editor
// service (which notifies every viewer of the change).
type SessionHandler struct {
	editor   session.GraphEditor
	store    ports.DocumentStore
	resolver ports.ActorResolver
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[*Client]*session.EditSession
}

// NewSessionHandler creates the per-connection gesture handler.
func NewSessionHandler(editor session.GraphEditor, store ports.DocumentStore, resolver ports.ActorResolver, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		editor:   editor,
		store:    store,
		resolver: resolver,
		logger:   logger,
		sessions: make(map[*Client]*session.EditSession),
	}
}

// HandleClientMessage implements MessageHandler.
func (h *SessionHandler) HandleClientMessage(c *Client, msg Message) {
	var payload gesturePayload
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			h.sendError(c, apperrors.NewInvalidFormatError("malformed gesture payload"))
			return
		}
	}

	ctx := context.Background()

	switch msg.Type {
	case GestureOpenTree:
		h.openTree(ctx, c, tree.TreeID(payload.TreeID))
	case GestureCloseTree:
		h.closeSession(c)
	case GestureBeginConnect:
		h.withSession(c, func(sess *session.EditSession) {
			sess.BeginConnect(tree.NodeID(payload.NodeID), payload.ConnectionType)
			h.sendState(c, sess, "")
		})
	case GestureNodeClick:
		h.withSession(c, func(sess *session.EditSession) {
			outcome, err := sess.ClickNode(ctx, tree.NodeID(payload.NodeID))
			if err != nil {
				h.sendError(c, err)
			}
			h.sendState(c, sess, outcome.String())
		})
	case GestureCanvasClick:
		h.withSession(c, func(sess *session.EditSession) {
			outcome := sess.ClickCanvas()
			h.sendState(c, sess, outcome.String())
		})
	case GestureDragStart:
		h.withSession(c, func(sess *session.EditSession) {
			if !sess.StartDrag(tree.NodeID(payload.NodeID)) {
				h.sendState(c, sess, "")
			}
		})
	case GestureDragMove:
		h.withSession(c, func(sess *session.EditSession) {
			sess.DragMove(tree.NodeID(payload.NodeID), payload.X, payload.Y)
		})
	case GestureDragEnd:
		h.withSession(c, func(sess *session.EditSession) {
			if err := sess.EndDrag(ctx, tree.NodeID(payload.NodeID), payload.X, payload.Y); err != nil {
				h.sendError(c, err)
			}
		})
	default:
		h.logger.Debug("Unknown gesture", zap.String("type", msg.Type))
	}
}

// ClientClosed implements MessageHandler.
func (h *SessionHandler) ClientClosed(c *Client) {
	h.closeSession(c)
}

func (h *SessionHandler) openTree(ctx context.Context, c *Client, treeID tree.TreeID) {
	collection, err := h.store.Load(ctx)
	if err != nil {
		h.sendError(c, err)
		return
	}
	t, err := collection.Get(treeID)
	if err != nil {
		h.sendError(c, err)
		return
	}
	vm := projection.Project(treeID, t, h.resolver)

	h.mu.Lock()
	if existing, ok := h.sessions[c]; ok {
		existing.SwitchTree(treeID, vm)
	} else {
		h.sessions[c] = session.NewEditSession(treeID, vm, h.editor, h.logger)
	}
	sess := h.sessions[c]
	h.mu.Unlock()

	if err := c.Send(EventTreeOpened, sess.ViewModel()); err != nil {
		h.logger.Warn("Failed to send view model", zap.Error(err))
	}
}

func (h *SessionHandler) closeSession(c *Client) {
	h.mu.Lock()
	sess, ok := h.sessions[c]
	if ok {
		delete(h.sessions, c)
	}
	h.mu.Unlock()
	if ok {
		sess.Close()
	}
}

func (h *SessionHandler) withSession(c *Client, fn func(*session.EditSession)) {
	h.mu.Lock()
	sess, ok := h.sessions[c]
	h.mu.Unlock()
	if !ok {
		h.sendError(c, apperrors.NewValidationError("no tree is open in this session"))
		return
	}
	fn(sess)
}

func (h *SessionHandler) sendState(c *Client, sess *session.EditSession, outcome string) {
	source, connType := sess.PendingSource()
	state := sessionState{
		Phase:       sess.ConnectPhase().String(),
		LastOutcome: outcome,
	}
	if sess.ConnectPhase() == session.PickingTarget {
		state.PendingSource = source.String()
		state.PendingType = connType
	}
	if err := c.Send(EventSessionState, state); err != nil {
		h.logger.Warn("Failed to send session state", zap.Error(err))
	}
}

func (h *SessionHandler) sendError(c *Client, err error) {
	code := "INTERNAL"
	message := "internal error"
	if appErr := apperrors.GetAppError(err); appErr != nil {
		code = string(appErr.Type)
		message = appErr.Message
	}
	if sendErr := c.Send(EventSessionError, map[string]string{"code": code, "message": message}); sendErr != nil {
		h.logger.Warn("Failed to send session error", zap.Error(sendErr))
	}
}
