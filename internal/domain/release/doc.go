// Package release contains the core domain types of the packaging pipeline.
//
// BuildOptions is the immutable per-platform configuration. Artifact lists the
// unpacked bundles produced by the packager, and DeploymentJob describes one
// bundle's trip through an installer engine. The installer specifications are
// typed, validated values serialized to the engines' JSON contracts.
package release
