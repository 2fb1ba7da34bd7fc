// Package config defines the configuration structure for the spo-migrator.
//
// Configuration is organized into logical sections and loaded with viper.
// Defaults are declared with `default` struct tags and applied with
// creasty/defaults before any other source is read.
//
// # Configuration Structure
//
//	Configuration
//	├── Target        - SharePoint destination (site, library, ids)
//	├── Storage       - Source and manifest containers
//	├── Queue         - Report queue
//	├── MigrationAPI  - Migration job creation endpoint
//	├── Provision     - Test content to migrate
//	├── Monitor       - Report queue polling
//	├── Agent         - Workers and run history location
//	├── Server        - Status API
//	├── LogFormat     - Logging format
//	└── LogLevel      - Logging verbosity
//
// # Sources
//
// Values are resolved in increasing precedence:
//
//	defaults (struct tags) → config file (--config) → SPO_ environment → flags
//
// Keys are written in kebab case. The environment variable of a key is its
// path upper cased, prefixed with SPO_, with dots and dashes replaced by
// underscores:
//
//	storage.source-bucket   →  SPO_STORAGE_SOURCE_BUCKET
//	monitor.idle-timeout    →  SPO_MONITOR_IDLE_TIMEOUT
//
// # Target Configuration
//
//	┌───────────────────────┬─────────────┬──────────────────────────────────────┐
//	│ Field                 │ Default     │ Description                          │
//	├───────────────────────┼─────────────┼──────────────────────────────────────┤
//	│ site-url              │ ""          │ Absolute url of the site             │
//	│ document-library      │ "Documents" │ Library name, also its url segment   │
//	│ document-library-id   │ ""          │ Library uuid                         │
//	│ subfolder             │ ""          │ Folder inside the library            │
//	│ web-id                │ ""          │ Web uuid                             │
//	│ root-folder-id        │ ""          │ Library root folder uuid             │
//	│ root-folder-parent-id │ ""          │ Parent of the root folder            │
//	└───────────────────────┴─────────────┴──────────────────────────────────────┘
//
// # Storage Configuration
//
//	┌───────────────────┬─────────────┬──────────────────────────────────────┐
//	│ Field             │ Default     │ Description                          │
//	├───────────────────┼─────────────┼──────────────────────────────────────┤
//	│ backend           │ "s3"        │ "s3" or "minio"                      │
//	│ region            │ "us-east-1" │ Bucket region                        │
//	│ endpoint          │ ""          │ Endpoint, required by minio          │
//	│ access-key        │ ""          │ Static credentials (optional for s3) │
//	│ secret-key        │ ""          │ Masked in DebugMap                   │
//	│ secure            │ true        │ Use TLS (minio)                      │
//	│ source-bucket     │ ""          │ Container of the migrated files      │
//	│ manifest-bucket   │ ""          │ Container of the package and logs    │
//	│ access-url-expiry │ 168h        │ Lifetime of access urls, at most 7d  │
//	└───────────────────┴─────────────┴──────────────────────────────────────┘
//
// # Queue, MigrationAPI, Provision, Monitor
//
//	┌────────────────────────────┬─────────┬──────────────────────────────────┐
//	│ Field                      │ Default │ Description                      │
//	├────────────────────────────┼─────────┼──────────────────────────────────┤
//	│ queue.url                  │ ""      │ Report queue url                 │
//	│ queue.wait-time-seconds    │ 10      │ Long polling wait                │
//	│ queue.visibility-timeout   │ 30      │ Seconds a message stays hidden   │
//	│ migration-api.token-file   │ ""      │ Bearer token, read on each call  │
//	│ migration-api.timeout      │ 60s     │ HTTP timeout                     │
//	│ provision.count            │ 10      │ Generated test files             │
//	│ provision.workbook         │ ""      │ xlsx inventory, wins over count  │
//	│ monitor.initial-interval   │ 1s      │ First wait on an empty queue     │
//	│ monitor.max-interval       │ 30s     │ Longest wait between polls       │
//	│ monitor.idle-timeout       │ 1h      │ Give up without any message      │
//	│ monitor.log-folder         │ "logs"  │ Where report logs are written    │
//	└────────────────────────────┴─────────┴──────────────────────────────────┘
//
// # Validation
//
//   - Validate: settings used by every command (logging, workers, monitor)
//   - ValidatePackage: Validate plus the target ids, used by package and run
//   - ValidateRun: ValidatePackage plus everything needed to reach the remote services
//
// # Debug Logging
//
// DebugMap returns a map suitable for structured logging. The storage secret
// key is masked:
//
//	zap.S().Debugw("configuration loaded", "config", cfg.DebugMap())
package config
