package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/applytrackapp/applytrack-server/internal/api"
	"github.com/applytrackapp/applytrack-server/internal/blob"
	"github.com/applytrackapp/applytrack-server/internal/config"
	"github.com/applytrackapp/applytrack-server/internal/logger"
	"github.com/applytrackapp/applytrack-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	blobs := do.MustInvoke[*blob.Storage](i)

	credentialService := do.MustInvoke[*service.CredentialService](i)
	positionService := do.MustInvoke[*service.PositionService](i)
	resumeService := do.MustInvoke[*service.ResumeService](i)
	metadataService := do.MustInvoke[*service.MetadataService](i)
	applicationService := do.MustInvoke[*service.ApplicationService](i)

	handler := api.NewServer(
		credentialService,
		positionService,
		resumeService,
		metadataService,
		applicationService,
		blobs,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
