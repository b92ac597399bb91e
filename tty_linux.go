package serial

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS // applies immediately, like TCSANOW
)

// setSpeed sets BaudRate for input and output
func setSpeed(termios *unix.Termios) {
	termios.Cflag = (termios.Cflag &^ unix.CBAUD) | unix.B57600
	termios.Ispeed = unix.B57600
	termios.Ospeed = unix.B57600
}

// flush discards both queued input and unsent output
func (unixTTY) flush(fd int) error {
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH)
}

// drain waits until all output written to fd has been transmitted
func (unixTTY) drain(fd int) error {
	return ignoringEINTR(func() error {
		return unix.IoctlSetInt(fd, unix.TCSBRK, 1)
	})
}
