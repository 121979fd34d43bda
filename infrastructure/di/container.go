package di

import (
	"go.uber.org/zap"

	"relatree/application/ports"
	"relatree/application/queries"
	"relatree/application/services"
	"relatree/infrastructure/config"
	"relatree/infrastructure/persistence"
	"relatree/interfaces/http/rest"
	ws "relatree/interfaces/websocket"
	"relatree/pkg/auth"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Storage     persistence.Storage
	Store       ports.DocumentStore
	PinStore    ports.PinStore
	Resolver    ports.ActorResolver
	Hub         *ws.Hub
	Broadcaster ports.Broadcaster
	Validator   *auth.JWTValidator
	WSServer    *ws.Server
	Editor      *services.EditorService
	Transfer    *services.TransferService
	Annotations *services.AnnotationService
	Browse      *queries.BrowseService
	Router      *rest.Router
}
