package api

import (
	"net/http"

	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/pkg/handlers"
	"github.com/barometerhq/barometer/pkg/routes"
)

// symptomRoutes exposes the fixed symptom catalog so clients can render
// score maps without hardcoding the 21 indicators.
func symptomRoutes() routes.Group {
	return routes.Group{
		Prefix: "/symptoms",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: listSymptoms},
		},
	}
}

func listSymptoms(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, scoring.Symptoms())
}
