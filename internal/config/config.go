// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Catalog  CatalogConfig
	Server   ServerConfig
	Security SecurityConfig
	Watch    WatchConfig
	Export   ExportConfig
	Logging  LoggingConfig
}

// CatalogConfig holds price file discovery and header vocabulary settings.
type CatalogConfig struct {
	// Dir is the directory scanned for price files (default: Prices)
	Dir string `env:"PRICES_DIR" default:"Prices"`

	// FileMarker is the substring a file name must contain (default: price)
	FileMarker string `env:"PRICES_FILE_MARKER" default:"price"`

	// Extensions are the accepted file suffixes; add .xlsx to read workbooks (default: .csv)
	Extensions []string `env:"PRICES_EXTENSIONS" default:".csv"`

	// ProductHeaders are header names accepted for the product column
	ProductHeaders []string `env:"PRICES_PRODUCT_HEADERS" default:"name,product,item,designation,название,продукт,товар,наименование"`

	// PriceHeaders are header names accepted for the price column
	PriceHeaders []string `env:"PRICES_PRICE_HEADERS" default:"price,retail,цена,розница"`

	// WeightHeaders are header names accepted for the weight column
	WeightHeaders []string `env:"PRICES_WEIGHT_HEADERS" default:"weight,mass,packaging,вес,масса,фасовка"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Enabled starts the HTTP API instead of the interactive prompt (default: false)
	Enabled bool `env:"SERVER_ENABLED" default:"false"`

	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig holds HTTP API protection settings.
type SecurityConfig struct {
	// RequireAPIKey guards POST /api/reload with the X-API-Key header (default: false)
	RequireAPIKey bool `env:"SECURITY_REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"SECURITY_API_KEYS"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP and X-Forwarded-For headers are honored
	TrustedProxies []string `env:"SECURITY_TRUSTED_PROXIES"`

	// RateLimit is the number of API requests allowed per client per minute; 0 disables (default: 100)
	RateLimit int `env:"SECURITY_RATE_LIMIT" default:"100"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	// Enabled reloads the catalog when price files change (default: false)
	Enabled bool `env:"WATCH_ENABLED" default:"false"`

	// Debounce is the quiet period after the last change before reloading (default: 500ms)
	Debounce time.Duration `env:"WATCH_DEBOUNCE" default:"500ms"`
}

// ExportConfig holds HTML export settings.
type ExportConfig struct {
	// HTMLPath is where the catalog table is written after loading.
	// Setting it to an empty value disables the export (default: output.html)
	HTMLPath string `env:"EXPORT_HTML_PATH" envAlt:"EXPORT_PATH" default:"output.html"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: debug)
	Level string `env:"LOG_LEVEL" default:"debug"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File is the log file path; an empty value logs to stderr (default: project.log)
	File string `env:"LOG_FILE" default:"project.log"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
