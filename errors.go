package serial

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound = errors.New("serial device not found")

	// Session errors
	ErrAlreadyOpen   = errors.New("serial port is already open")
	ErrNotOpen       = errors.New("serial port is not open")
	ErrOpenFailed    = errors.New("failed to open serial port")
	ErrGetAttributes = errors.New("failed to get terminal attributes")
	ErrSetAttributes = errors.New("failed to set terminal attributes")
	ErrFlush         = errors.New("failed to flush terminal I/O")
	ErrRead          = errors.New("read from serial port failed")
	ErrSelect        = errors.New("select function error")
	ErrWrite         = errors.New("write to serial port failed")
)

// PortError records a failed session operation. Kind is one of the session
// errors above; Err is the underlying OS error, if any.
type PortError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PortError) Error() string {
	s := e.Op
	if e.Path != "" {
		s += " " + e.Path
	}
	s += ": " + e.Kind.Error()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both Kind and Err to errors.Is and errors.As.
func (e *PortError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Code returns the OS error number carried by err. It returns 0 for nil and
// -1 for errors without an OS error, such as ErrNotOpen.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return -1
}
