// Package di provides dependency injection configuration for the ApplyTrack server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/applytrackapp/applytrack-server/internal/auth"
	"github.com/applytrackapp/applytrack-server/internal/config"
	"github.com/applytrackapp/applytrack-server/internal/di/providers"
	"github.com/applytrackapp/applytrack-server/internal/logger"
	"github.com/applytrackapp/applytrack-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideBlobStorage)
	do.Provide(injector, providers.ProvideStatsCache)
	do.Provide(injector, providers.ProvideMetadataCache)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Shared service dependencies
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideClock)

	// Business services
	do.Provide(injector, providers.ProvideCredentialService)
	do.Provide(injector, providers.ProvidePositionService)
	do.Provide(injector, providers.ProvideResumeService)
	do.Provide(injector, providers.ProvideMetadataService)
	do.Provide(injector, providers.ProvideApplicationService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.CredentialService](injector)
	_ = do.MustInvoke[*service.PositionService](injector)
	_ = do.MustInvoke[*service.ResumeService](injector)
	_ = do.MustInvoke[*service.MetadataService](injector)
	_ = do.MustInvoke[*service.ApplicationService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
