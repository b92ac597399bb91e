/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/allbin/pmap-serial"
	"github.com/allbin/pmap-serial/diag"
	"github.com/allbin/pmap-serial/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
	v       = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pmapserial",
	Short: "Serial transport for mechanism-control tooling",
	Long: `pmapserial drives the single serial channel used to talk to a
mechanism controller: 57600 baud, 8N1, no flow control, raw mode.

Every status message is printed to the console and, with --log, also written
to a pmap_<YYYY-MM-DD_HH-MM-SS>.log file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./pmapserial.yaml)")
	rootCmd.PersistentFlags().StringP("device", "d", "", "Serial device path")
	rootCmd.PersistentFlags().Bool("log", false, "Write a session log file")
	rootCmd.PersistentFlags().String("log-dir", ".", "Directory for the session log file")

	v.BindPFlag("device", rootCmd.PersistentFlags().Lookup("device"))
	v.BindPFlag("log.enabled", rootCmd.PersistentFlags().Lookup("log"))
	v.BindPFlag("log.dir", rootCmd.PersistentFlags().Lookup("log-dir"))
}

// devicePath picks the device argument if given, else the configured device
func devicePath(args []string, index int) (string, error) {
	if len(args) > index {
		return args[index], nil
	}
	if cfg.Device != "" {
		return cfg.Device, nil
	}
	return "", errors.New("no device given: pass it as an argument, with --device or in the config file")
}

// newSink creates the diagnostic sink and opens the session log when enabled.
// The returned function closes the log.
func newSink() (*diag.Sink, func(), error) {
	sink := diag.New(
		diag.WithDir(cfg.Log.Dir),
		diag.WithDoubledPrompt(cfg.Prompt.Doubled),
	)
	if !cfg.Log.Enabled {
		return sink, func() {}, nil
	}
	if err := sink.Init(); err != nil {
		return nil, nil, err
	}
	return sink, func() { sink.Deinit() }, nil
}

// openSession opens portPath with diagnostics going to sink
func openSession(sink *diag.Sink, portPath string) (*serial.Session, error) {
	session := serial.NewSession(serial.WithLogger(sink))
	if err := session.Open(portPath); err != nil {
		return nil, err
	}
	return session, nil
}
