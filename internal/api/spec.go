package api

import (
	"github.com/barometerhq/barometer/internal/config"
	"github.com/barometerhq/barometer/pkg/openapi"
)

// BuildSpec assembles the OpenAPI document for the API surface. Paths are
// relative to the API module's base path, which is registered as the
// server URL.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.Docs.Title, cfg.Version)
	spec.SetDescription(cfg.API.Docs.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(domainSchemas())

	addEntryPaths(spec)
	addAssessmentPaths(spec)
	addSessionPaths(spec)
	addDetectionPaths(spec)
	addSymptomPaths(spec)
	addStoragePaths(spec)

	return spec
}

func domainSchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Entry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"owner_id":     {Type: "string", Format: "uuid"},
				"kind":         {Type: "string", Enum: []any{"typed", "imported"}},
				"batch_id":     {Type: "string", Format: "uuid", Description: "Import batch, absent for typed entries"},
				"content":      {Type: "string"},
				"recorded_at":  {Type: "string", Format: "date-time"},
				"status":       {Type: "string", Enum: []any{"pending", "processing", "completed", "failed"}},
				"status_error": {Type: "string", Description: "Failure cause, present when status is failed"},
				"version":      {Type: "integer", Description: "Optimistic lock counter"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"CreateEntry": {
			Type:     "object",
			Required: []string{"owner_id", "content"},
			Properties: map[string]*openapi.Schema{
				"owner_id":    {Type: "string", Format: "uuid"},
				"content":     {Type: "string"},
				"recorded_at": {Type: "string", Format: "date-time", Description: "Defaults to now when omitted"},
			},
		},
		"UpdateEntry": {
			Type:     "object",
			Required: []string{"content"},
			Properties: map[string]*openapi.Schema{
				"content": {Type: "string"},
			},
		},
		"ImportBatch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"owner_id":    {Type: "string", Format: "uuid"},
				"filename":    {Type: "string"},
				"storage_key": {Type: "string", Description: "Blob storage key of the archived payload"},
				"entry_count": {Type: "integer"},
				"created_at":  {Type: "string", Format: "date-time"},
			},
		},
		"ImportRequest": {
			Type:     "object",
			Required: []string{"owner_id", "filename", "messages"},
			Properties: map[string]*openapi.Schema{
				"owner_id": {Type: "string", Format: "uuid"},
				"filename": {Type: "string"},
				"messages": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"content":     {Type: "string"},
							"recorded_at": {Type: "string", Format: "date-time"},
						},
					},
				},
			},
		},
		"ImportResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"batch":   openapi.SchemaRef("ImportBatch"),
				"entries": {Type: "array", Items: openapi.SchemaRef("Entry")},
			},
		},
		"SymptomScore": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"level":  {Type: "integer", Minimum: f64(0), Maximum: f64(3)},
				"reason": {Type: "string"},
			},
		},
		"Assessment": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":       {Type: "string", Format: "uuid"},
				"entry_id": {Type: "string", Format: "uuid"},
				"scores": {
					Type:        "object",
					Description: "Symptom id (Q1..Q21) to score",
				},
				"total":      {Type: "integer", Minimum: f64(0), Maximum: f64(63)},
				"severity":   {Type: "string", Enum: []any{"Minimal", "Mild", "Moderate", "Severe"}},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"Scorecard": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total":    {Type: "integer"},
				"severity": {Type: "string"},
				"breakdown": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"severe":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
						"moderate": {Type: "array", Items: &openapi.Schema{Type: "string"}},
						"mild":     {Type: "array", Items: &openapi.Schema{Type: "string"}},
						"present":  {Type: "integer", Description: "Symptoms scored above zero"},
					},
				},
			},
		},
		"SentimentReading": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":       {Type: "string", Format: "uuid"},
				"entry_id": {Type: "string", Format: "uuid"},
				"label":    {Type: "string", Enum: []any{"Positive", "Neutral", "Negative"}},
				"distribution": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"positive": {Type: "number"},
						"neutral":  {Type: "number"},
						"negative": {Type: "number"},
					},
				},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"Session": {
			Type:        "object",
			Description: "One analysis session: a typed entry, or an import batch collapsed to a single point",
			Properties: map[string]*openapi.Schema{
				"owner_id":           {Type: "string", Format: "uuid"},
				"kind":               {Type: "string", Enum: []any{"typed", "imported"}},
				"batch_id":           {Type: "string", Format: "uuid"},
				"entry_ids":          {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
				"timestamp":          {Type: "string", Format: "date-time"},
				"avg_total_score":    {Type: "number"},
				"severity":           {Type: "string"},
				"dominant_sentiment": {Type: "string"},
				"symptom_averages":   {Type: "object", Description: "Symptom id to mean score across members"},
				"member_count":       {Type: "integer"},
			},
		},
		"DetectionResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"detected":       {Type: "boolean"},
				"severity":       {Type: "string"},
				"trend":          {Type: "string", Enum: []any{"Improving", "Stable", "Worsening"}},
				"confidence":     {Type: "string", Enum: []any{"Low", "Medium", "High"}},
				"sessions_used":  {Type: "integer", Description: "Sessions inside the detection window"},
				"time_span_days": {Type: "integer"},
				"top_symptoms":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"explanation":    {Type: "string"},
			},
		},
		"Readiness": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"ready":           {Type: "boolean"},
				"sessions":        {Type: "integer"},
				"distinct_days":   {Type: "integer"},
				"window_days":     {Type: "integer"},
				"min_sessions":    {Type: "integer"},
				"min_active_days": {Type: "integer"},
				"message":         {Type: "string"},
			},
		},
		"Symptom": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":     {Type: "string", Description: "Wire identifier (Q1..Q21)"},
				"name":   {Type: "string"},
				"phrase": {Type: "string", Description: "Behavioral description embedded in prompts"},
			},
		},
	}
}

func addEntryPaths(spec *openapi.Spec) {
	spec.Paths["/entries"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List entries",
			Tags:    []string{"entries"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("owner_id", "string", "Filter by owner", false),
				openapi.QueryParam("kind", "string", "Filter by kind", false),
				openapi.QueryParam("status", "string", "Filter by analysis status", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated entries", "Entry"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a typed entry",
			Tags:        []string{"entries"},
			RequestBody: openapi.RequestBodyJSON("CreateEntry", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created entry", "Entry"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/entries/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search entries",
			Tags:        []string{"entries"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated entries", "Entry"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/entries/import"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Import journal messages in bulk",
			Description: "Registers the messages as imported entries under one batch and archives the raw payload to blob storage.",
			Tags:        []string{"entries"},
			RequestBody: openapi.RequestBodyJSON("ImportRequest", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Import result", "ImportResult"),
				400: openapi.ResponseRef("BadRequest"),
				413: {Description: "Payload exceeds the import size limit"},
			},
		},
	}

	spec.Paths["/entries/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find an entry",
			Tags:       []string{"entries"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Entry ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Entry", "Entry"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update an entry's text",
			Description: "Resets the analysis state to pending and discards derived assessment and sentiment rows.",
			Tags:        []string{"entries"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Entry ID")},
			RequestBody: openapi.RequestBodyJSON("UpdateEntry", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated entry", "Entry"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete an entry",
			Tags:       []string{"entries"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Entry ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/entries/batches/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find an import batch",
			Tags:       []string{"entries"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Batch ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Import batch", "ImportBatch"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/entries/batches/{id}/entries"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List a batch's entries",
			Tags:       []string{"entries"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Batch ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Entries in chronological order", "Entry"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addAssessmentPaths(spec *openapi.Spec) {
	spec.Paths["/assessments"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List assessments",
			Tags:    []string{"assessments"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("severity", "string", "Filter by severity band", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated assessments", "Assessment"),
			},
		},
	}

	spec.Paths["/assessments/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search assessments",
			Tags:        []string{"assessments"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated assessments", "Assessment"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/assessments/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find an assessment",
			Tags:       []string{"assessments"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Assessment ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Assessment", "Assessment"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete an assessment",
			Tags:       []string{"assessments"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Assessment ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/assessments/entry/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find the assessment for an entry",
			Tags:       []string{"assessments"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Entry ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Assessment", "Assessment"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Assess an entry",
			Description: "Claims the entry and runs the full pipeline: symptom scoring, sentiment, and persistence. Re-running on a completed entry re-scores it.",
			Tags:        []string{"assessments"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Entry ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Assessment", "Assessment"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/assessments/entry/{id}/scorecard"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Summarize an entry's assessment",
			Tags:       []string{"assessments"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Entry ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Scorecard", "Scorecard"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/assessments/entry/{id}/sentiment"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find the sentiment reading for an entry",
			Tags:       []string{"assessments"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Entry ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Sentiment reading", "SentimentReading"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/assessments/batch/{id}"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Assess an import batch",
			Description: "Claims every claimable member of the batch and scores them in one run, splitting the batch into token-bounded chunks.",
			Tags:        []string{"assessments"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Batch ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Assessments for the batch members", "Assessment"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addSessionPaths(spec *openapi.Spec) {
	spec.Paths["/sessions/{ownerId}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "List an owner's analysis sessions",
			Description: "Collapses completed entries into sessions: typed entries map one to one, import batches average into a single point at the batch timestamp.",
			Tags:        []string{"sessions"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("ownerId", "Owner ID"),
				openapi.QueryParam("days", "integer", "Restrict to the trailing window; zero or absent means all time", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Sessions in chronological order", "Session"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addDetectionPaths(spec *openapi.Spec) {
	spec.Paths["/detection/{ownerId}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Run low mood detection for an owner",
			Description: "Evaluates the proportion and streak rules over the detection window, with severity, trend, confidence, and top symptoms as supporting signals.",
			Tags:        []string{"detection"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("ownerId", "Owner ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Detection result", "DetectionResult"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/detection/{ownerId}/readiness"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Check whether an owner has enough history for insights",
			Tags:       []string{"detection"},
			Parameters: []*openapi.Parameter{openapi.PathParam("ownerId", "Owner ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Readiness", "Readiness"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addSymptomPaths(spec *openapi.Spec) {
	spec.Paths["/symptoms"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "List the symptom catalog",
			Description: "The fixed 21-indicator catalog every assessment scores against, in canonical order.",
			Tags:        []string{"symptoms"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Symptom catalog", "Symptom"),
			},
		},
	}
}

func addStoragePaths(spec *openapi.Spec) {
	spec.Paths["/storage"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List archived import payloads",
			Tags:    []string{"storage"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker", false),
				openapi.QueryParam("max_results", "integer", "Page size cap", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob listing"},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/storage/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find blob metadata",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{keyParam()},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob metadata"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/storage/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download a blob",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{keyParam()},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob content as an attachment"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func keyParam() *openapi.Parameter {
	return &openapi.Parameter{
		Name:        "key",
		In:          "path",
		Required:    true,
		Description: "Blob key",
		Schema:      &openapi.Schema{Type: "string"},
	}
}

func f64(v float64) *float64 { return &v }
