package serial

import "go.uber.org/zap"

const (
	// DefaultDeviceDir is scanned for candidate devices before a port is opened
	DefaultDeviceDir = "/dev"

	// DefaultReceiveTimeout is the normal-operation receive timeout in
	// milliseconds, set each time a session is opened.
	DefaultReceiveTimeout uint16 = 5000
)

// BaudRate is the speed used in both directions
const BaudRate = 57600

// LineMode describes the line discipline every session applies on open
const LineMode = "57600 8N1, no flow control, raw mode"

// Logger receives session diagnostics. *diag.Sink and *zap.Logger both satisfy it.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// Option is a functional option for configuring a Session
type Option func(*Session)

// WithLogger sets where session diagnostics are reported
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDeviceDir sets the directory listed when a port is opened
func WithDeviceDir(dir string) Option {
	return func(s *Session) {
		s.deviceDir = dir
	}
}
