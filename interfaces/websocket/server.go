package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"relatree/pkg/auth"
)

// Server upgrades HTTP requests to viewer connections. Authentication uses
// the same JWT as the REST surface, carried in the token query parameter
// because browsers cannot set headers on WebSocket upgrades.
type Server struct {
	hub       *Hub
	validator *auth.JWTValidator
	sessions  MessageHandler
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

// NewServer creates a new WebSocket server. sessions may be nil for a
// notification-only feed.
func NewServer(hub *Hub, validator *auth.JWTValidator, sessions MessageHandler, logger *zap.Logger) *Server {
	return &Server{
		hub:       hub,
		validator: validator,
		sessions:  sessions,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The REST layer already enforces CORS; the upgrade accepts any
			// origin and relies on the token check below.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection is the /ws endpoint.
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := s.validator.ValidateToken(token)
	if err != nil {
		s.logger.Warn("WebSocket auth failed", zap.Error(err))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(claims.UserID, s.hub, conn, s.sessions, s.logger)
	client.Start()
}
