// Package version holds the build metadata injected through ldflags and the
// `version` subcommand shared by alert-engine and alert-report.
package version
