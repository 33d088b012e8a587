package api

import (
	"net/http"

	"github.com/barometerhq/barometer/internal/config"
	"github.com/barometerhq/barometer/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	storage := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		int32(cfg.API.MaxStorageResults),
	)

	routes.Register(
		mux,
		domain.Entries.Handler(cfg.API.MaxImportSizeBytes()).Routes(),
		domain.Assessments.Handler().Routes(),
		domain.Sessions.Handler().Routes(),
		domain.Detection.Handler().Routes(),
		symptomRoutes(),
		storage.routes(),
	)
}
