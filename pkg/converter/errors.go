package converter

import "errors"

// Fatal validation errors. Each aborts the conversion before any output is
// produced; recoverable conditions are reported as warnings instead.
var (
	// ErrNotObject is returned when the payload is not a JSON object
	ErrNotObject = errors.New("Payload must be a JSON object")

	// ErrMissingMeasures is returned when the payload has no usable measure list
	ErrMissingMeasures = errors.New("Track JSON missing valid 'measures'")

	// ErrNoStrings is returned when no tuning is supplied and no note
	// references any string, so a tuning cannot be synthesized
	ErrNoStrings = errors.New("cannot resolve tuning: track has no strings")

	// ErrUnknownDuration is returned when a beat carries a duration with no
	// canonical mapping
	ErrUnknownDuration = errors.New("beat has no valid duration")

	// ErrStringOutOfRange is returned when a note references a string index
	// outside the resolved tuning
	ErrStringOutOfRange = errors.New("note string index outside tuning range")
)
