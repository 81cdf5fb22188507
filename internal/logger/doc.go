// Package logger wraps zap with a global sugared console logger and helpers
// that pull a scoped logger out of a context.
//
// Pipeline stages attach a name and key-value pairs (platform, artifact) to
// the context so that interleaved output from concurrent deployments stays
// attributable.
package logger
