// Package packager runs the packaging engine for one platform and collects the
// unpacked bundles it leaves in the staging directory.
package packager
