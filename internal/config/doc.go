// Package config provides centralized configuration management for the
// sheet normalization commands. It handles loading configuration from
// multiple sources, validation, and a type-safe API for the rest of the
// application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A config.yaml file in the working directory or configs/
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SHEETNORM_* for namespacing:
//
//	SHEETNORM_INPUT_PATH=data/sheets
//	SHEETNORM_OUTPUT_DIR=output
//	SHEETNORM_PROCESSING_WORKERS=4
//	SHEETNORM_PROCESSING_FUZZY_THRESHOLD=0.85
//	SHEETNORM_LOGGING_LEVEL=debug
//
// # Validation
//
// All configuration is validated at load time through struct tags
// (go-playground/validator) plus a few manual checks: worker counts and the
// fuzzy threshold stay in range, referenced files exist, and file logging
// always has a destination path.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
