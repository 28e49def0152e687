package media

import "errors"

var (
	ErrPermissionDenied         = errors.New("camera or microphone permission denied")
	ErrDeviceNotFound           = errors.New("capture device not found")
	ErrDeviceBusy               = errors.New("capture device is in use")
	ErrConstraintsUnsatisfiable = errors.New("capture constraints cannot be satisfied")

	ErrNothingRequested = errors.New("neither audio nor video requested")
	ErrReleased         = errors.New("media handle already released")
)

// Hint returns a remediation message suitable for the person in front of
// the device. Unknown errors get a generic retry hint.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "Allow camera and microphone access for this application, then start the session again."
	case errors.Is(err, ErrDeviceNotFound):
		return "No camera or microphone was found. Connect a device and start the session again."
	case errors.Is(err, ErrDeviceBusy):
		return "Your camera or microphone is being used by another application. Close it and start the session again."
	case errors.Is(err, ErrConstraintsUnsatisfiable):
		return "Your camera does not support the requested video settings. Try another camera."
	default:
		return "Something went wrong while starting your camera or microphone. Please try again."
	}
}

// IsCaptureError reports whether err belongs to the capture taxonomy.
func IsCaptureError(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDeviceNotFound) ||
		errors.Is(err, ErrDeviceBusy) ||
		errors.Is(err, ErrConstraintsUnsatisfiable)
}
