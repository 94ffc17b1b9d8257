package providers

import (
	"github.com/samber/do/v2"

	"github.com/applytrackapp/applytrack-server/internal/auth"
	"github.com/applytrackapp/applytrack-server/internal/blob"
	"github.com/applytrackapp/applytrack-server/internal/cache"
	"github.com/applytrackapp/applytrack-server/internal/clock"
	"github.com/applytrackapp/applytrack-server/internal/domain"
	"github.com/applytrackapp/applytrack-server/internal/logger"
	"github.com/applytrackapp/applytrack-server/internal/ratelimit"
	"github.com/applytrackapp/applytrack-server/internal/service"
	"github.com/applytrackapp/applytrack-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideClock provides the wall clock used for apply-date checks.
func ProvideClock(i do.Injector) (clock.Clock, error) {
	return clock.System{}, nil
}

// ProvideCredentialService provides the credential service.
func ProvideCredentialService(i do.Injector) (*service.CredentialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	limiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCredentialService(storeHandle.Store, tokenService, validator, limiter, log.Logger), nil
}

// ProvidePositionService provides the target position service.
func ProvidePositionService(i do.Injector) (*service.PositionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPositionService(storeHandle.Store, log.Logger), nil
}

// ProvideResumeService provides the resume version service.
func ProvideResumeService(i do.Injector) (*service.ResumeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	blobs := do.MustInvoke[*blob.Storage](i)
	statsCache := do.MustInvoke[*cache.Cache[*domain.ApplicationStats]](i)
	metaCache := do.MustInvoke[*cache.Cache[*domain.ResumeMetadata]](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewResumeService(storeHandle.Store, blobs, statsCache, metaCache, log.Logger), nil
}

// ProvideMetadataService provides the resume metadata service.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	metaCache := do.MustInvoke[*cache.Cache[*domain.ResumeMetadata]](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMetadataService(storeHandle.Store, metaCache, log.Logger), nil
}

// ProvideApplicationService provides the application record service.
func ProvideApplicationService(i do.Injector) (*service.ApplicationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	statsCache := do.MustInvoke[*cache.Cache[*domain.ApplicationStats]](i)
	clk := do.MustInvoke[clock.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewApplicationService(storeHandle.Store, statsCache, clk, log.Logger), nil
}
