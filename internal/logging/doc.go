// Package logging builds the slog logger used across easel.
//
// Console output renders timestamped key=value lines; JSON output uses the
// stock slog JSON handler with lowercase levels and UTC timestamps. Logs go
// to stderr (optionally fanned into a file under the configured log
// directory) so the bootstrapper's status lines on stdout remain clean.
package logging
