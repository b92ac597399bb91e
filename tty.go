//go:build linux || darwin

package serial

import (
	"time"

	"golang.org/x/sys/unix"
)

// fdSetSize is FD_SETSIZE on both supported platforms
const fdSetSize = 1024

// ttyDriver is the set of terminal system calls a Session makes
type ttyDriver interface {
	open(path string) (int, error)
	setBlocking(fd int) error
	getAttr(fd int) (*unix.Termios, error)
	setAttr(fd int, termios *unix.Termios) error
	flush(fd int) error
	// waitReadable reports whether fd became readable within timeout
	waitReadable(fd int, timeout time.Duration) (bool, error)
	read(fd int, buf []byte) (int, error)
	write(fd int, data []byte) (int, error)
	drain(fd int) error
	close(fd int) error
}

// unixTTY talks to a real terminal device
type unixTTY struct{}

var _ ttyDriver = unixTTY{}

func (unixTTY) open(path string) (int, error) {
	return unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
}

// setBlocking clears all file status flags, O_NONBLOCK included
func (unixTTY) setBlocking(fd int) error {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, 0)
	return err
}

func (unixTTY) getAttr(fd int) (*unix.Termios, error) {
	return unix.IoctlGetTermios(fd, ioctlGetTermios)
}

func (unixTTY) setAttr(fd int, termios *unix.Termios) error {
	return unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
}

// waitReadable selects on fd alone. Interrupted waits resume with whatever
// time is left before the deadline.
func (unixTTY) waitReadable(fd int, timeout time.Duration) (bool, error) {
	if fd < 0 || fd >= fdSetSize {
		return false, unix.EBADF
	}

	deadline := time.Now().Add(timeout)
	for {
		var readfds unix.FdSet
		readfds.Set(fd)
		tv := unix.NsecToTimeval(timeout.Nanoseconds())

		n, err := unix.Select(fd+1, &readfds, nil, nil, &tv)
		if err == unix.EINTR {
			timeout = max(time.Until(deadline), 0)
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
}

func (unixTTY) read(fd int, buf []byte) (int, error) {
	return ignoringEINTRIO(unix.Read, fd, buf)
}

func (unixTTY) write(fd int, data []byte) (int, error) {
	return ignoringEINTRIO(unix.Write, fd, data)
}

func (unixTTY) close(fd int) error {
	return unix.Close(fd)
}

func ignoringEINTR(fn func() error) error {
	for {
		err := fn()
		if err != unix.EINTR {
			return err
		}
	}
}

func ignoringEINTRIO(fn func(int, []byte) (int, error), fd int, p []byte) (int, error) {
	for {
		n, err := fn(fd, p)
		if err != unix.EINTR {
			return n, err
		}
	}
}

// applyRawMode rewrites termios for the fixed line: BaudRate in both
// directions, 8 data bits, no parity, 1 stop bit, no hardware or software
// flow control, no local modes and no output processing. Other flags are left
// as the driver reported them.
func applyRawMode(termios *unix.Termios) {
	setSpeed(termios)

	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CRTSCTS
	termios.Cflag |= unix.CS8

	termios.Iflag &^= unix.IXON | unix.IXOFF | unix.IXANY
	termios.Lflag = 0
	termios.Oflag = 0
}
