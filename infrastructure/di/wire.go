//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"relatree/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideStorage,
	ProvideDocumentStore,
	ProvidePinStore,
	ProvideActorResolver,
	ProvideHub,
	ProvideBroadcaster,
	ProvideJWTValidator,
	ProvideSessionHandler,
	ProvideWSServer,
	ProvideEditorService,
	ProvideTransferService,
	ProvideAnnotationService,
	ProvideBrowseService,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
