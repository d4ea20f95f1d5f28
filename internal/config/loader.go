package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// lookup returns the value of the primary env var, falling back to the
// alternate name, and whether either was set at all.
func lookup(name, alt string) (string, bool) {
	if v, ok := os.LookupEnv(name); ok {
		return v, true
	}
	if alt != "" {
		return os.LookupEnv(alt)
	}
	return "", false
}

// loadStruct recursively populates struct fields from environment variables.
//
// An unset variable takes its default. A variable set to an empty value
// clears string fields (so optional paths can be switched off) and falls
// back to the default for every other kind.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}
		required := field.Tag.Get("required") == "true"

		value, set := lookup(envName, field.Tag.Get("envAlt"))
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			if set && fieldVal.Kind() == reflect.String {
				fieldVal.SetString("")
				continue
			}
			value = field.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// splitList splits a comma-separated value, trimming whitespace around each
// item and dropping empty items.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Catalog validation
	if strings.TrimSpace(c.Catalog.Dir) == "" {
		errs = append(errs, "PRICES_DIR must not be empty")
	}
	if len(c.Catalog.Extensions) == 0 {
		errs = append(errs, "PRICES_EXTENSIONS must list at least one extension")
	}
	for _, ext := range c.Catalog.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("PRICES_EXTENSIONS entry %q must start with a dot", ext))
		}
	}
	if len(c.Catalog.ProductHeaders) == 0 {
		errs = append(errs, "PRICES_PRODUCT_HEADERS must list at least one header")
	}
	if len(c.Catalog.PriceHeaders) == 0 {
		errs = append(errs, "PRICES_PRICE_HEADERS must list at least one header")
	}
	if len(c.Catalog.WeightHeaders) == 0 {
		errs = append(errs, "PRICES_WEIGHT_HEADERS must list at least one header")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, "SERVER_WRITE_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "SECURITY_API_KEYS must be set when SECURITY_REQUIRE_API_KEY is true")
	}
	if c.Security.RateLimit < 0 {
		errs = append(errs, "SECURITY_RATE_LIMIT must be non-negative")
	}

	// Watch validation
	if c.Watch.Enabled && c.Watch.Debounce <= 0 {
		errs = append(errs, "WATCH_DEBOUNCE must be positive when watching is enabled")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Catalog: {Dir: %q, Marker: %q, Extensions: %v}, ",
		c.Catalog.Dir, c.Catalog.FileMarker, c.Catalog.Extensions)
	fmt.Fprintf(&b, "Server: {Enabled: %v, Addr: %q}, ", c.Server.Enabled, c.Server.Addr())
	fmt.Fprintf(&b, "Security: {RequireAPIKey: %v, APIKeys: %d, RateLimit: %d}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys), c.Security.RateLimit)
	fmt.Fprintf(&b, "Watch: {Enabled: %v, Debounce: %s}, ", c.Watch.Enabled, c.Watch.Debounce)
	fmt.Fprintf(&b, "Export: {HTMLPath: %q}, ", c.Export.HTMLPath)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q, File: %q}",
		c.Logging.Level, c.Logging.Format, c.Logging.File)
	b.WriteString("}")
	return b.String()
}
