package serial

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestPortError(t *testing.T) {
	err := &PortError{Op: "open", Path: "/dev/ttyUSB0", Kind: ErrGetAttributes, Err: unix.ENOTTY}

	want := "open /dev/ttyUSB0: failed to get terminal attributes: " + unix.ENOTTY.Error()
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrGetAttributes) {
		t.Error("errors.Is(err, ErrGetAttributes) = false")
	}
	if !errors.Is(err, unix.ENOTTY) {
		t.Error("errors.Is(err, ENOTTY) = false")
	}
	if errors.Is(err, ErrSetAttributes) {
		t.Error("errors.Is(err, ErrSetAttributes) = true")
	}
}

func TestPortErrorWithoutCause(t *testing.T) {
	err := &PortError{Op: "read", Kind: ErrNotOpen}

	if err.Error() != "read: serial port is not open" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNotOpen) {
		t.Error("errors.Is(err, ErrNotOpen) = false")
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"not open", &PortError{Op: "write", Kind: ErrNotOpen}, -1},
		{"already open", &PortError{Op: "open", Kind: ErrAlreadyOpen, Err: unix.EMFILE}, int(unix.EMFILE)},
		{"errno", unix.EACCES, int(unix.EACCES)},
		{"plain", errors.New("boom"), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
