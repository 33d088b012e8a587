package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/barometerhq/barometer/pkg/formatting"
	"github.com/barometerhq/barometer/pkg/middleware"
	"github.com/barometerhq/barometer/pkg/openapi"
	"github.com/barometerhq/barometer/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "BAROMETER_CORS_ENABLED",
	Origins:          "BAROMETER_CORS_ORIGINS",
	AllowedMethods:   "BAROMETER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "BAROMETER_CORS_ALLOWED_HEADERS",
	AllowCredentials: "BAROMETER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "BAROMETER_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "BAROMETER_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "BAROMETER_PAGINATION_MAX_PAGE_SIZE",
}

var docsEnv = &openapi.ConfigEnv{
	Title:       "BAROMETER_DOCS_TITLE",
	Description: "BAROMETER_DOCS_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and docs settings.
type APIConfig struct {
	BasePath          string                `toml:"base_path"`
	MaxImportSize     string                `toml:"max_import_size"`
	MaxStorageResults int                   `toml:"max_storage_results"`
	CORS              middleware.CORSConfig `toml:"cors"`
	Pagination        pagination.Config     `toml:"pagination"`
	Docs              openapi.Config        `toml:"docs"`
}

// MaxImportSizeBytes returns the import payload cap in bytes.
func (c *APIConfig) MaxImportSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxImportSize)
	if err != nil {
		return 10 * 1024 * 1024 // 10MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Docs.Finalize(docsEnv); err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxImportSize != "" {
		c.MaxImportSize = overlay.MaxImportSize
	}
	if overlay.MaxStorageResults != 0 {
		c.MaxStorageResults = overlay.MaxStorageResults
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Docs.Merge(&overlay.Docs)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxImportSize == "" {
		c.MaxImportSize = "10MB"
	}
	if c.MaxStorageResults == 0 {
		c.MaxStorageResults = 100
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("BAROMETER_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("BAROMETER_API_MAX_IMPORT_SIZE"); v != "" {
		c.MaxImportSize = v
	}
	if v := os.Getenv("BAROMETER_API_MAX_STORAGE_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxStorageResults = n
		}
	}
}
