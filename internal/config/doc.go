// Package config loads runtime configuration for the movielib CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, loaded into the process
//     environment without overriding variables that are already set.
//  3. An optional config file (JSON, YAML or TOML) selected with -c or
//     -config, plus MOVIELIB_* environment variables. OMDB_API_KEY is
//     honoured as an alias of MOVIELIB_OMDB_API_KEY.
//  4. Command-line flags (see parseFlags).
//
// Supported flags
//
//	-d string          database DSN (SQLite path or postgres:// URL)
//	-k string          OMDb API key
//	-o string          output directory for histograms and galleries
//	-log-level string  debug, info, warn or error
//	-log-format string slog or zap
//	-single-user       run without accounts against the whole library
//	-session-file string
//
// # File keys
//
//	database_dsn: movies.db
//	omdb_api_key: ""
//	http_timeout: 10s
//	s3_bucket: movielib
//	presign_ttl: 15m
package config
