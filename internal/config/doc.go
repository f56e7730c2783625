// Package config handles loading and validation of recents configuration.
//
// Configuration is read from ~/.config/recents/config.toml with environment
// variable overrides for the locator and data directory.
//
// # Configuration Sources (highest priority first)
//
//   - RECENTS_LOCATOR env var: locator executable
//   - RECENTS_DATA_DIR env var: base directory of per-installation settings
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - locator_path: executable that lists IDE installations as JSON
//   - data_dir: base directory holding the record files (must be absolute or ~/...)
//   - default_instance: installation to open items with (empty: let the environment decide)
//   - auto_backup: take a daily backup during refresh (default: true)
//   - lock_timeout, git_timeout: durations like "500ms" or "2s"
//
// # Search
//
// The [search] section toggles the optional scoring signals:
//
//	[search]
//	path = true          # blend full-path matches
//	branch = true        # blend git branch matches
//	browse_order = "oldest"
//
// # Static Instances
//
// Installations can be declared directly in [[instances]] tables; they are
// used alongside whatever the locator reports.
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
