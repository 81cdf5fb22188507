// Package manifest records the archives of a release run with their checksums
// and writes them to release-manifest.yaml.
package manifest
