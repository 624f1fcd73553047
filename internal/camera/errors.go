package camera

import "errors"

// ErrDeviceUnavailable is returned by OpenDriver when no camera could be
// acquired. Callers match it with errors.Is.
var ErrDeviceUnavailable = errors.New("camera device unavailable")

// IsDeviceUnavailable reports whether err indicates a failed acquisition.
func IsDeviceUnavailable(err error) bool { return errors.Is(err, ErrDeviceUnavailable) }

// paramsRejectedError wraps a parameter application failure. It never leaves
// the package; OpenDriver absorbs it.
type paramsRejectedError struct {
	safeMode bool
	err      error
}

func (e paramsRejectedError) Error() string {
	if e.safeMode {
		return "camera rejected safe-mode parameters: " + e.err.Error()
	}
	return "camera rejected parameters: " + e.err.Error()
}

func (e paramsRejectedError) Unwrap() error { return e.err }
