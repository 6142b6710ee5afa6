package analytics

import "errors"

// Validation failures raised by the pipeline. Callers match them with
// errors.Is; the wrapped message carries the offending value.
var (
	ErrInvalidAxis          = errors.New("invalid axis")
	ErrInvalidClusterCount  = errors.New("invalid cluster count")
	ErrInvalidFeatureColumn = errors.New("invalid feature column")
	ErrEmptyInput           = errors.New("empty input")
	ErrPlayerNotFound       = errors.New("player not found")
)

// ErrorKind returns the taxonomy name of a pipeline error, or "" when err is
// not one of them.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAxis):
		return "InvalidAxis"
	case errors.Is(err, ErrInvalidClusterCount):
		return "InvalidClusterCount"
	case errors.Is(err, ErrInvalidFeatureColumn):
		return "InvalidFeatureColumn"
	case errors.Is(err, ErrEmptyInput):
		return "EmptyInput"
	case errors.Is(err, ErrPlayerNotFound):
		return "PlayerNotFound"
	}
	return ""
}

// IsValidation reports whether err is a caller-recoverable input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAxis) ||
		errors.Is(err, ErrInvalidClusterCount) ||
		errors.Is(err, ErrInvalidFeatureColumn) ||
		errors.Is(err, ErrEmptyInput)
}
