// Package config loads runtime configuration for the fintrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_file": "/home/me/.fintrack/ledger.db",
//	  "log_file": "/home/me/.fintrack/fintrack.log",
//	  "max_retries": 3,
//	  "initial_backoff": "1s",
//	  "max_backoff": "5m",
//	  "s3_region": "eu-central-1"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values. S3 credentials left empty fall
// back to the AWS SDK's own lookup.
package config
