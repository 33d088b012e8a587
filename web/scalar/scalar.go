package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/barometerhq/barometer/pkg/module"
	"github.com/barometerhq/barometer/pkg/openapi"
)

//go:embed index.html
var staticFS embed.FS

// NewModule creates a module that serves the Scalar API reference UI at
// basePath, backed by the given pre-serialized OpenAPI document.
func NewModule(basePath string, spec []byte) *module.Module {
	router := buildRouter(basePath, spec)
	return module.New(basePath, router)
}

func buildRouter(basePath string, spec []byte) http.Handler {
	mux := http.NewServeMux()

	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{"BasePath": basePath})
	})

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return mux
}
