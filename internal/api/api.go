// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/barometerhq/barometer/internal/config"
	"github.com/barometerhq/barometer/internal/infrastructure"
	"github.com/barometerhq/barometer/pkg/middleware"
	"github.com/barometerhq/barometer/pkg/module"
	"github.com/barometerhq/barometer/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	spec, err := openapi.MarshalJSON(BuildSpec(cfg))
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
