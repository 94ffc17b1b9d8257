package providers

import (
	"github.com/samber/do/v2"

	"github.com/applytrackapp/applytrack-server/internal/blob"
	"github.com/applytrackapp/applytrack-server/internal/config"
	"github.com/applytrackapp/applytrack-server/internal/logger"
)

// ProvideBlobStorage provides the on-disk store for uploaded resume files.
func ProvideBlobStorage(i do.Injector) (*blob.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := blob.NewStorage(cfg.Blob.BasePath)
	if err != nil {
		return nil, err
	}

	log.Info("Blob storage initialized", "path", cfg.Blob.BasePath)

	return storage, nil
}
