/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/allbin/pmap-serial/diag"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <data> [port]",
	Short: "Send data to the serial device",
	Long: `Open a session, send data, optionally wait for a reply and close again.

The line is always 57600 baud 8N1 without flow control. The write blocks until
all bytes have left the transmit queue.

Example usage:
  pmapserial send "PING" /dev/ttyUSB0 --reply
  pmapserial send "50494e47" --hex --device /dev/ttyUSB0
  pmapserial send "RESET" --confirm --log`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data := args[0]
		portPath, err := devicePath(args, 1)
		if err != nil {
			return err
		}

		addNewline, _ := cmd.Flags().GetBool("newline")
		hexMode, _ := cmd.Flags().GetBool("hex")
		reply, _ := cmd.Flags().GetBool("reply")
		confirm, _ := cmd.Flags().GetBool("confirm")
		timeout := cfg.ReadTimeout()
		if cmd.Flags().Changed("reply-timeout") {
			timeout, _ = cmd.Flags().GetUint16("reply-timeout")
		}

		if hexMode {
			processedData, err := parseHexString(data)
			if err != nil {
				return fmt.Errorf("invalid hex data: %w", err)
			}
			data = processedData
		}

		if addNewline && !hexMode {
			data += "\n"
		}

		sink, closeLog, err := newSink()
		if err != nil {
			return err
		}
		defer closeLog()

		return sendData(sink, portPath, []byte(data), sendOptions{
			confirm: confirm,
			reply:   reply,
			timeout: timeout,
		})
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '50494e47' for 'PING')")
	sendCmd.Flags().BoolP("reply", "r", false, "Wait for and print a reply")
	sendCmd.Flags().Uint16("reply-timeout", 0, "Reply timeout in milliseconds (default: read_timeout_ms)")
	sendCmd.Flags().Bool("confirm", false, "Wait for ENTER before sending")
}

type sendOptions struct {
	confirm bool
	reply   bool
	timeout uint16
}

func parseHexString(hexStr string) (string, error) {
	// Remove common hex prefixes and whitespace
	hexStr = strings.ReplaceAll(hexStr, " ", "")
	hexStr = strings.ReplaceAll(hexStr, "0x", "")
	hexStr = strings.ReplaceAll(hexStr, "0X", "")

	if len(hexStr)%2 != 0 {
		return "", fmt.Errorf("hex string must have even length")
	}

	var result strings.Builder
	for i := 0; i < len(hexStr); i += 2 {
		hexByte := hexStr[i : i+2]
		var b byte
		if _, err := fmt.Sscanf(hexByte, "%x", &b); err != nil {
			return "", fmt.Errorf("invalid hex byte '%s': %v", hexByte, err)
		}
		result.WriteByte(b)
	}

	return result.String(), nil
}

func sendData(sink *diag.Sink, portPath string, data []byte, opts sendOptions) error {
	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("40")).
		Bold(true)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true)

	session, err := openSession(sink, portPath)
	if err != nil {
		return err
	}
	defer session.Close()

	if opts.confirm {
		if err := sink.Prompt("Press ENTER to send.", zap.Int("bytes", len(data))); err != nil {
			return fmt.Errorf("confirmation aborted: %w", err)
		}
	}

	sink.Debug("Sending", zap.Binary("data", data))
	n, err := session.Write(data)
	if err != nil {
		return err
	}
	fmt.Printf("%s Sent %d bytes\n", successStyle.Render("✓"), n)

	if !opts.reply {
		return nil
	}

	buf := make([]byte, 256)
	n, err = session.Read(buf, opts.timeout)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Printf("%s No reply within %d ms\n", infoStyle.Render("…"), opts.timeout)
		return nil
	}

	sink.Debug("Received", zap.Binary("data", buf[:n]))
	fmt.Printf("%s Reply: %s\n", infoStyle.Render("📋"), printable(buf[:n]))
	return nil
}

// printable replaces non-printable characters for display
func printable(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r > 126 {
			return '·'
		}
		return r
	}, string(data))
}
