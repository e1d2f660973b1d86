// Package bootstrap runs the ordered provisioning sequence that prepares a
// workspace: interpreter and ffmpeg checks, directory layout, virtual
// environment, Python dependencies, API credential, sample document, and a
// closing self-check. Steps report tagged outcomes; a fatal outcome from a
// required step aborts the run, everything else accumulates into the summary.
package bootstrap
