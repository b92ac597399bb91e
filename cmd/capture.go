/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/pmap-serial"
	"github.com/spf13/cobra"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <output-file> [port]",
	Short: "Capture serial data to a file",
	Long: `Capture incoming serial data to a file for later parsing.

Reads from the serial device in timeout-bounded chunks and appends everything
received to the output file. Runs until interrupted (Ctrl+C).

Example usage:
  pmapserial capture data.log /dev/ttyUSB0
  pmapserial capture data.log --device /dev/ttyUSB0 --console --timeout 500`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath := args[0]
		portPath, err := devicePath(args, 1)
		if err != nil {
			return err
		}

		bufferSize, _ := cmd.Flags().GetInt("buffer")
		showConsole, _ := cmd.Flags().GetBool("console")
		timeout := cfg.ReadTimeout()
		if cmd.Flags().Changed("timeout") {
			timeout, _ = cmd.Flags().GetUint16("timeout")
		}
		if err := validateCaptureOptions(bufferSize, timeout); err != nil {
			return err
		}

		sink, closeLog, err := newSink()
		if err != nil {
			return err
		}
		defer closeLog()

		session, err := openSession(sink, portPath)
		if err != nil {
			return err
		}
		defer session.Close()

		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer file.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var console io.Writer
		if showConsole {
			console = os.Stdout
		}

		fmt.Fprintf(os.Stderr, "Capturing data from %s to %s\n", portPath, outputPath)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

		startTime := time.Now()
		written, err := runCapture(ctx, session, file, console, bufferSize, timeout)
		fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes written in %v\n", written, time.Since(startTime).Round(time.Millisecond))
		return err
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Int("buffer", 4096, "Read buffer size")
	captureCmd.Flags().Uint16("timeout", 0, "Per-read timeout in milliseconds, above 0 (default: read_timeout_ms)")
	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on console while capturing")
}

// reader is the part of a session capture needs
type reader interface {
	Read(buf []byte, timeout uint16) (int, error)
}

// validateCaptureOptions rejects settings under which the read loop would spin
func validateCaptureOptions(bufferSize int, timeout uint16) error {
	if bufferSize <= 0 {
		return fmt.Errorf("buffer size must be positive, got %d", bufferSize)
	}
	if timeout == 0 {
		return errors.New("capture timeout must be above 0 ms")
	}
	return nil
}

// runCapture copies data from r to out until ctx is done. Each read is bounded
// by timeout, so cancellation is noticed within one timeout period.
func runCapture(ctx context.Context, r reader, out io.Writer, console io.Writer, bufferSize int, timeout uint16) (int64, error) {
	if err := validateCaptureOptions(bufferSize, timeout); err != nil {
		return 0, err
	}
	buffer := make([]byte, bufferSize)
	var bytesWritten int64

	for ctx.Err() == nil {
		n, err := r.Read(buffer, timeout)
		if err != nil {
			return bytesWritten, fmt.Errorf("read error: %w", err)
		}
		if n == 0 {
			continue
		}

		written, err := out.Write(buffer[:n])
		bytesWritten += int64(written)
		if err != nil {
			return bytesWritten, fmt.Errorf("write error: %w", err)
		}

		if console != nil {
			console.Write(buffer[:n])
		}
	}
	return bytesWritten, nil
}

var _ reader = (*serial.Session)(nil)
