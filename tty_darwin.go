package serial

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA // applies immediately, like TCSANOW
)

// setSpeed sets BaudRate for input and output
func setSpeed(termios *unix.Termios) {
	termios.Ispeed = unix.B57600
	termios.Ospeed = unix.B57600
}

// flush discards both queued input and unsent output; a zero argument to
// TIOCFLUSH selects both queues.
func (unixTTY) flush(fd int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCFLUSH, 0)
}

// drain waits until all output written to fd has been transmitted
func (unixTTY) drain(fd int) error {
	return ignoringEINTR(func() error {
		return unix.IoctlSetInt(fd, unix.TIOCDRAIN, 0)
	})
}
