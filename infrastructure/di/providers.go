package di

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"relatree/application/ports"
	"relatree/application/queries"
	"relatree/application/services"
	"relatree/infrastructure/actors"
	"relatree/infrastructure/config"
	"relatree/infrastructure/persistence"
	"relatree/infrastructure/persistence/journal"
	"relatree/infrastructure/persistence/sqlite"
	"relatree/interfaces/http/rest"
	ws "relatree/interfaces/websocket"
	"relatree/pkg/auth"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

// ProvideStorage creates the persistence backend named by the config.
// The cleanup function closes backends that hold open handles.
func ProvideStorage(cfg *config.Config, logger *zap.Logger) (persistence.Storage, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverJournal:
		store, err := journal.NewStore(cfg.JournalPath(), logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case config.StoreDriverSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath(), logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// ProvideDocumentStore exposes the storage backend as the tree document port.
func ProvideDocumentStore(storage persistence.Storage) ports.DocumentStore {
	return storage
}

// ProvidePinStore exposes the storage backend as the map pin port.
func ProvidePinStore(storage persistence.Storage) ports.PinStore {
	return storage
}

// ProvideActorResolver loads the file-backed actor directory.
func ProvideActorResolver(cfg *config.Config, logger *zap.Logger) (ports.ActorResolver, error) {
	return actors.NewDirectory(cfg.ActorsPath(), logger)
}

// ProvideHub creates the WebSocket hub.
func ProvideHub(logger *zap.Logger) *ws.Hub {
	return ws.NewHub(logger)
}

// ProvideBroadcaster wraps the hub as the application broadcast port.
func ProvideBroadcaster(hub *ws.Hub, logger *zap.Logger) ports.Broadcaster {
	return ws.NewBroadcaster(hub, logger)
}

// ProvideJWTValidator creates the token validator. Outside production an
// empty secret falls back to a fixed development key.
func ProvideJWTValidator(cfg *config.Config, logger *zap.Logger) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set, using insecure development key")
		secret = "relatree-development-key"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideSessionHandler creates the per-connection gesture handler.
func ProvideSessionHandler(editor *services.EditorService, store ports.DocumentStore, resolver ports.ActorResolver, logger *zap.Logger) *ws.SessionHandler {
	return ws.NewSessionHandler(editor, store, resolver, logger)
}

// ProvideWSServer creates the WebSocket connection handler.
func ProvideWSServer(hub *ws.Hub, validator *auth.JWTValidator, sessions *ws.SessionHandler, logger *zap.Logger) *ws.Server {
	return ws.NewServer(hub, validator, sessions, logger)
}

// ProvideEditorService creates the graph editing service.
func ProvideEditorService(store ports.DocumentStore, broadcaster ports.Broadcaster, logger *zap.Logger) *services.EditorService {
	return services.NewEditorService(store, broadcaster, logger)
}

// ProvideTransferService creates the import/export service.
func ProvideTransferService(store ports.DocumentStore, logger *zap.Logger) *services.TransferService {
	return services.NewTransferService(store, logger)
}

// ProvideAnnotationService creates the map pin service.
func ProvideAnnotationService(pins ports.PinStore, store ports.DocumentStore, broadcaster ports.Broadcaster, logger *zap.Logger) *services.AnnotationService {
	return services.NewAnnotationService(pins, store, broadcaster, logger)
}

// ProvideBrowseService creates the read-side query service.
func ProvideBrowseService(store ports.DocumentStore, resolver ports.ActorResolver, logger *zap.Logger) *queries.BrowseService {
	return queries.NewBrowseService(store, resolver, logger)
}

// ProvideRouter assembles the HTTP router.
func ProvideRouter(
	cfg *config.Config,
	editor *services.EditorService,
	transfer *services.TransferService,
	annotations *services.AnnotationService,
	browse *queries.BrowseService,
	validator *auth.JWTValidator,
	wsServer *ws.Server,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, editor, transfer, annotations, browse, validator, wsServer, logger)
}
