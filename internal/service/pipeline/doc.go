// Package pipeline runs a release: it selects target platforms, resolves their
// build options, drives the packager and hands every bundle to the platform's
// deployer, which builds the installer and archives it.
//
// Platforms and their artifacts run concurrently. The first fatal error
// cancels everything still running; Run returns only after all of it stopped.
package pipeline
