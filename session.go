//go:build linux || darwin

package serial

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Session owns the single serial channel used by the mechanism-control
// protocol. A zero-value Session is not usable; create one with NewSession.
//
// A Session is Closed until Open succeeds and returns to Closed on Close. Any
// failure while opening releases the descriptor before returning, so a
// Session never holds a half-configured device.
type Session struct {
	mu        sync.Mutex
	tty       ttyDriver
	log       Logger
	deviceDir string

	fd             int
	path           string
	receiveTimeout uint16
}

// NewSession creates a closed session
func NewSession(opts ...Option) *Session {
	s := &Session{
		tty:       unixTTY{},
		log:       zap.NewNop(),
		deviceDir: DefaultDeviceDir,
		fd:        -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open lists the candidate devices, then opens and configures path.
//
// It fails with ErrAlreadyOpen (carrying EMFILE) while another device is open,
// ErrOpenFailed, ErrGetAttributes, ErrSetAttributes or ErrFlush otherwise.
func (s *Session) Open(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fd != -1 {
		s.log.Error("COM port is already open.", zap.String("path", s.path))
		return &PortError{Op: "open", Path: path, Kind: ErrAlreadyOpen, Err: unix.EMFILE}
	}

	s.listDevices()

	s.log.Info("Opening COM port", zap.String("path", path))
	fd, err := s.tty.open(path)
	if err != nil {
		s.log.Error("Failed to open COM port.", zap.String("path", path), zap.Int("code", Code(err)), zap.Error(err))
		return &PortError{Op: "open", Path: path, Kind: ErrOpenFailed, Err: err}
	}
	s.log.Info("COM port opened successfully.", zap.String("path", path))

	if err := s.configure(fd, path); err != nil {
		_ = s.tty.close(fd)
		return err
	}

	s.fd = fd
	s.path = path
	s.receiveTimeout = DefaultReceiveTimeout
	s.log.Info("COM port configuration set.", zap.String("line", LineMode))
	return nil
}

// configure applies the line settings to a freshly opened descriptor and
// discards anything already queued. The caller closes fd on error.
func (s *Session) configure(fd int, path string) error {
	fail := func(kind error, msg string, err error) error {
		s.log.Error(msg, zap.String("path", path), zap.Int("code", Code(err)), zap.Error(err))
		return &PortError{Op: "open", Path: path, Kind: kind, Err: err}
	}

	if err := s.tty.setBlocking(fd); err != nil {
		return fail(ErrOpenFailed, "Failed to clear non-blocking mode.", err)
	}

	termios, err := s.tty.getAttr(fd)
	if err != nil {
		return fail(ErrGetAttributes, "Failed to get terminal attributes.", err)
	}

	applyRawMode(termios)
	if err := s.tty.setAttr(fd, termios); err != nil {
		return fail(ErrSetAttributes, "Failed to set terminal attributes.", err)
	}

	if err := s.tty.flush(fd); err != nil {
		return fail(ErrFlush, "Failed to flush terminal I/O.", err)
	}
	return nil
}

// listDevices reports the candidate devices. It is informational only.
func (s *Session) listDevices() {
	s.log.Info("Available serial devices in " + s.deviceDir + ":")
	for path := range Candidates(s.deviceDir) {
		s.log.Info(path)
	}
}

// Read waits up to timeout milliseconds for data and then performs a single
// read of at most len(buf) bytes. A timeout is not an error: Read returns 0
// and a nil error.
func (s *Session) Read(buf []byte, timeout uint16) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fd == -1 {
		s.log.Error("COM port is not open.")
		return 0, &PortError{Op: "read", Kind: ErrNotOpen}
	}

	ready, err := s.tty.waitReadable(s.fd, time.Duration(timeout)*time.Millisecond)
	if err != nil {
		s.log.Error("Select function error.", zap.String("path", s.path), zap.Error(err))
		return 0, &PortError{Op: "read", Path: s.path, Kind: ErrSelect, Err: err}
	}
	if !ready {
		s.log.Info("Read from COM port timed out.", zap.Uint16("timeout_ms", timeout))
		return 0, nil
	}

	n, err := s.tty.read(s.fd, buf)
	if err != nil {
		s.log.Error("Read from COM port failed.", zap.String("path", s.path), zap.Error(err))
		return 0, &PortError{Op: "read", Path: s.path, Kind: ErrRead, Err: err}
	}
	return n, nil
}

// Write writes data and blocks until it has been transmitted
func (s *Session) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fd == -1 {
		s.log.Error("COM port is not open.")
		return 0, &PortError{Op: "write", Kind: ErrNotOpen}
	}

	n, err := s.tty.write(s.fd, data)
	if err != nil {
		s.log.Error("Write to COM port failed.", zap.String("path", s.path), zap.Error(err))
		return 0, &PortError{Op: "write", Path: s.path, Kind: ErrWrite, Err: err}
	}

	if err := s.tty.drain(s.fd); err != nil {
		s.log.Error("Failed to drain COM port output.", zap.String("path", s.path), zap.Error(err))
		return n, &PortError{Op: "drain", Path: s.path, Kind: ErrWrite, Err: err}
	}
	return n, nil
}

// Close releases the device. Closing a closed session only reports it.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fd == -1 {
		s.log.Info("COM port is already closed.")
		return
	}

	s.log.Info("Closing COM port...", zap.String("path", s.path))
	if err := s.tty.close(s.fd); err != nil {
		s.log.Error("Error closing COM port.", zap.String("path", s.path), zap.Error(err))
	}
	s.fd = -1
	s.path = ""
	s.log.Info("COM port closed.")
}

// IsOpen reports whether the session holds a device
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fd != -1
}

// Path returns the open device path, or "" when closed
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// ReceiveTimeout returns the normal-operation receive timeout in
// milliseconds. It is zero until the first successful Open.
func (s *Session) ReceiveTimeout() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receiveTimeout
}

// Sleep suspends the calling goroutine for ms milliseconds
func Sleep(ms uint16) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
