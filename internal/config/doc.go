// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is looked up, in order, from the file given with --config,
// from config.cue in the platform configuration directory
// ($XDG_CONFIG_HOME/metacheck on Linux, ~/Library/Application Support/metacheck
// on macOS, %AppData%\metacheck on Windows), and from metacheck.cue in the
// working directory. The first file found wins; without one, defaults apply.
// Every key can also be overridden from the environment with the METACHECK_
// prefix (for example METACHECK_JOBS=8 or METACHECK_GIT_BASE_REF=main).
//
// Files are validated against the embedded config_schema.cue before they are
// merged, so type errors are reported with the offending CUE path.
package config
