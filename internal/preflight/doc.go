// Package preflight verifies runtime prerequisites without mutating anything.
//
// Checks cover the interpreter, workspace directory access, the virtual
// environment, the sample fixture, credential presence, and (when enabled)
// Gemini API reachability. Results feed the status command and the setup
// run's informational self-check step.
package preflight
