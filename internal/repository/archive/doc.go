// Package archive compresses deployment folders into sibling zip files and
// reclaims the space they used.
package archive
