// Package config loads runtime configuration for the CSE Manager CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the REST API
//	-d string     directory holding the local session database
//	-t duration   per-request timeout
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "data_dir": ".csemanager",
//	  "request_timeout": "10s"
//	}
package config
