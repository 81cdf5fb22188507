package release

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification via errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrStaging       = errors.New("staging error")
	ErrPackaging     = errors.New("packaging error")
	ErrDeployment    = errors.New("deployment error")
	ErrArchival      = errors.New("archival error")
)

// Phase names the pipeline step an error came from.
type Phase string

// Pipeline phases as they appear in user-facing error labels.
const (
	PhaseConfig      Phase = "config"
	PhaseStage       Phase = "stage"
	PhaseBuild       Phase = "build"
	PhaseDeploy      Phase = "deploy"
	PhasePackaging   Phase = "packaging"
	PhaseCompression Phase = "compression"
)

// Sentinel returns the error class for the phase.
func (p Phase) Sentinel() error {
	switch p {
	case PhaseConfig:
		return ErrConfiguration
	case PhaseStage:
		return ErrStaging
	case PhaseBuild:
		return ErrPackaging
	case PhaseDeploy:
		return ErrDeployment
	default:
		return ErrArchival
	}
}

// Fatal reports whether an error in this phase aborts the run.
func (p Phase) Fatal() bool {
	return p != PhasePackaging && p != PhaseCompression
}

// PhaseError is a failure tagged with the phase, platform and path it concerns.
type PhaseError struct {
	Phase    Phase
	Platform string
	Path     string
	Err      error
}

// NewPhaseError wraps err for the given phase. A nil err yields nil.
func NewPhaseError(phase Phase, platform, path string, err error) error {
	if err == nil {
		return nil
	}

	return &PhaseError{
		Phase:    phase,
		Platform: platform,
		Path:     path,
		Err:      err,
	}
}

// Label returns the user-facing phase label, e.g. "error (deploy)".
func (e *PhaseError) Label() string {
	return "error (" + string(e.Phase) + ")"
}

// Error implements error.
func (e *PhaseError) Error() string {
	switch {
	case e.Platform != "" && e.Path != "":
		return fmt.Sprintf("%s: %s %s: %v", e.Label(), e.Platform, e.Path, e.Err)
	case e.Platform != "":
		return fmt.Sprintf("%s: %s: %v", e.Label(), e.Platform, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Label(), e.Err)
	}
}

// Unwrap exposes both the phase sentinel and the cause.
func (e *PhaseError) Unwrap() []error {
	return []error{e.Phase.Sentinel(), e.Err}
}

// LabelOf returns the phase label of err, or "error" when err carries none.
func LabelOf(err error) string {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Label()
	}

	return "error"
}
