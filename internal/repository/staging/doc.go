// Package staging prepares and clears the directory trees the release
// pipeline writes into, and guards a release directory against concurrent runs.
//
// All operations block until the filesystem reflects them and report failures
// instead of assuming success.
package staging
