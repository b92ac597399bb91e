package serial

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/allbin/pmap-serial/diag"
	"golang.org/x/sys/unix"
)

// openPTY allocates a pseudo-terminal pair and returns the master descriptor
// and the slave path. The slave behaves like a serial device.
func openPTY(t *testing.T) (int, string) {
	t.Helper()

	master, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Skipf("pseudo-terminals not available: %v", err)
	}
	t.Cleanup(func() { unix.Close(master) })

	if err := unix.IoctlSetPointerInt(master, unix.TIOCSPTLCK, 0); err != nil {
		t.Skipf("failed to unlock pty: %v", err)
	}
	n, err := unix.IoctlGetUint32(master, unix.TIOCGPTN)
	if err != nil {
		t.Skipf("failed to get pty number: %v", err)
	}

	return master, fmt.Sprintf("/dev/pts/%d", n)
}

// echo copies everything the slave writes back to it until the slave closes
func echo(master int) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 256)
		for {
			n, err := unix.Read(master, buf)
			if err == unix.EINTR {
				continue
			}
			if err != nil || n <= 0 {
				return
			}
			if _, err := unix.Write(master, buf[:n]); err != nil {
				return
			}
		}
	}()
	return done
}

func TestLoopbackPing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping pty integration test in short mode")
	}

	master, slave := openPTY(t)

	var console bytes.Buffer
	sink := diag.New(
		diag.WithConsole(&console),
		diag.WithDir(t.TempDir()),
		diag.WithConfirm(func() error { return nil }),
	)
	if err := sink.Init(); err != nil {
		t.Fatalf("sink Init failed: %v", err)
	}
	logPath := sink.Path()

	s := NewSession(WithLogger(sink))
	if err := s.Open(slave); err != nil {
		t.Fatalf("Open(%s) failed: %v", slave, err)
	}
	done := echo(master)

	n, err := s.Write([]byte("PING"))
	if err != nil || n != 4 {
		t.Fatalf("Write = (%d, %v), want (4, nil)", n, err)
	}

	var got []byte
	buf := make([]byte, 16)
	for attempt := 0; attempt < 10 && len(got) < 4; attempt++ {
		n, err := s.Read(buf, 100)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != "PING" {
		t.Errorf("echo = %q, want \"PING\"", got)
	}

	s.Close()
	if s.IsOpen() {
		t.Error("session still open after Close")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("echo goroutine did not stop after the slave closed")
	}

	if err := sink.Deinit(); err != nil {
		t.Fatalf("sink Deinit failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	for _, msg := range []string{"COM port opened successfully.", "COM port configuration set.", "COM port closed."} {
		if !strings.Contains(console.String(), msg) {
			t.Errorf("console missing %q", msg)
		}
		if !strings.Contains(string(data), msg) {
			t.Errorf("log file missing %q", msg)
		}
	}
}

func TestReadTimeoutOnIdleLine(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping pty integration test in short mode")
	}

	_, slave := openPTY(t)

	s := NewSession()
	if err := s.Open(slave); err != nil {
		t.Fatalf("Open(%s) failed: %v", slave, err)
	}
	defer s.Close()

	start := time.Now()
	n, err := s.Read(make([]byte, 8), 100)
	elapsed := time.Since(start)

	if n != 0 || err != nil {
		t.Errorf("Read = (%d, %v), want (0, nil)", n, err)
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("Read returned after %v, before the 100ms timeout", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("Read blocked for %v", elapsed)
	}

	start = time.Now()
	if n, err := s.Read(make([]byte, 8), 0); n != 0 || err != nil {
		t.Errorf("Read with zero timeout = (%d, %v)", n, err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("zero timeout Read took %v", elapsed)
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	s := NewSession(WithDeviceDir(t.TempDir()))

	err := s.Open("/dev/nonexistent-pmap-serial")
	if !errors.Is(err, ErrOpenFailed) {
		t.Fatalf("Open error = %v, want ErrOpenFailed", err)
	}
	if Code(err) != int(unix.ENOENT) {
		t.Errorf("Code = %d, want ENOENT", Code(err))
	}
	if s.IsOpen() {
		t.Error("session open after failed Open")
	}
}

func TestOpenNonTerminal(t *testing.T) {
	s := NewSession(WithDeviceDir(t.TempDir()))

	err := s.Open("/dev/null")
	if !errors.Is(err, ErrGetAttributes) {
		t.Fatalf("Open error = %v, want ErrGetAttributes", err)
	}
	if !errors.Is(err, unix.ENOTTY) {
		t.Errorf("error should wrap ENOTTY: %v", err)
	}
	if s.IsOpen() {
		t.Error("session open after failed Open")
	}
}
