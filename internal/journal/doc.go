// Package journal persists bootstrap run history in SQLite.
//
// Each setup invocation becomes one row in runs, with its step outcomes in
// run_steps. The journal is advisory: write failures degrade to warnings so
// a broken cache directory can never block provisioning.
package journal
