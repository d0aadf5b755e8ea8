package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

var validSSLModes = map[string]bool{
	"disable":     true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateKobo()...)
	errors = append(errors, c.validateDatabase()...)
	errors = append(errors, c.validateLoad()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateKobo() ValidationErrors {
	var errors ValidationErrors

	if c.Kobo.URL == "" {
		errors = append(errors, ValidationError{
			Field:   "kobo.url",
			Message: "export URL is required",
		})
	} else {
		u, err := url.Parse(c.Kobo.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, ValidationError{
				Field:   "kobo.url",
				Message: "must be an http or https URL",
			})
		}
	}

	if c.Kobo.Username == "" {
		errors = append(errors, ValidationError{
			Field:   "kobo.username",
			Message: "username is required for basic authentication",
		})
	}

	if c.Kobo.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "kobo.timeout_seconds",
			Message: "timeout must be greater than zero",
		})
	}

	return errors
}

func (c *Config) validateDatabase() ValidationErrors {
	var errors ValidationErrors

	if c.Database.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "database.host",
			Message: "host is required",
		})
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "database.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", c.Database.Port),
		})
	}
	if c.Database.User == "" {
		errors = append(errors, ValidationError{
			Field:   "database.user",
			Message: "user is required",
		})
	}
	if c.Database.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "database.database",
			Message: "database name is required",
		})
	}
	if c.Database.SSLMode != "" && !validSSLModes[c.Database.SSLMode] {
		errors = append(errors, ValidationError{
			Field:   "database.sslmode",
			Message: fmt.Sprintf("invalid sslmode %q (disable, require, verify-ca, verify-full)", c.Database.SSLMode),
		})
	}

	return errors
}

func (c *Config) validateLoad() ValidationErrors {
	var errors ValidationErrors

	if c.Load.BatchSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "load.batch_size",
			Message: "batch size must be greater than zero",
		})
	}
	if c.Load.SampleRows < 0 {
		errors = append(errors, ValidationError{
			Field:   "load.sample_rows",
			Message: "sample rows cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q (debug, info, warn, error)", c.Logging.Level),
		})
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q (json, text)", c.Logging.Format),
		})
	}

	return errors
}
