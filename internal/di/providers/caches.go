package providers

import (
	"github.com/samber/do/v2"

	"github.com/applytrackapp/applytrack-server/internal/cache"
	"github.com/applytrackapp/applytrack-server/internal/config"
	"github.com/applytrackapp/applytrack-server/internal/domain"
)

// ProvideStatsCache provides the per-user application stats cache.
func ProvideStatsCache(i do.Injector) (*cache.Cache[*domain.ApplicationStats], error) {
	cfg := do.MustInvoke[*config.Config](i)
	return cache.New[*domain.ApplicationStats](cfg.Cache.Capacity, cfg.Cache.StatsTTL), nil
}

// ProvideMetadataCache provides the per-resume metadata cache.
func ProvideMetadataCache(i do.Injector) (*cache.Cache[*domain.ResumeMetadata], error) {
	cfg := do.MustInvoke[*config.Config](i)
	return cache.New[*domain.ResumeMetadata](cfg.Cache.Capacity, cfg.Cache.MetadataTTL), nil
}
