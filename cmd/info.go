/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/allbin/pmap-serial"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [port]",
	Short: "Display information about a serial device",
	Long: `Display what is known about a serial device and the line settings a
session applies to it.

Examples:
  pmapserial info /dev/ttyUSB0
  pmapserial info --device /dev/ttyACM0`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath, err := devicePath(args, 0)
		if err != nil {
			return err
		}

		info, err := serial.GetPortInfo(portPath)
		if err != nil {
			return fmt.Errorf("error getting port info: %w", err)
		}

		fmt.Printf("Port Information: %s\n\n", info.Path)
		fmt.Printf("  Name:           %s\n", info.Name)
		fmt.Printf("  Description:    %s\n", info.Description)
		fmt.Printf("  Char device:    %v\n", info.CharDevice)
		fmt.Printf("  Line settings:  %s\n", serial.LineMode)
		fmt.Printf("  Read timeout:   %d ms\n", cfg.ReadTimeout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
