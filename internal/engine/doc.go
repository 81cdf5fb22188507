// Package engine drives the external packaging and installer tools.
//
// Every engine is an external command whose argv is a list of text/template
// strings rendered against the job. Installer engines receive their
// specification as a JSON file whose path is exposed to the templates as
// .SpecFile.
package engine
