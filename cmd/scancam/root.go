package main

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"scancam/internal/config"
)

// options are the persistent flags shared by all commands. Non-empty values
// override the config file.
type options struct {
	configPath string
	device     string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "scancam",
		Short:         "Camera resource manager and barcode scan service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("SCANCAM_CONFIG"), "Path to a .yaml, .json or .toml config file (defaults SCANCAM_CONFIG)")
	root.PersistentFlags().StringVar(&opts.device, "device", "", `Camera: "sim" or a V4L2 node such as /dev/video0`)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: console|json")

	root.AddCommand(newServeCmd(opts), newDevicesCmd(), newFramingCmd(opts))
	return root
}

// load reads the config file, if any, applies flag overrides and defaults.
func (o *options) load() (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if o.device != "" {
		cfg.Device = o.device
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	return cfg.WithDefaults(), nil
}

// newLogger builds the process logger from the log section.
func newLogger(lc config.LogConfig, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if strings.EqualFold(lc.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// splitCSV splits a comma-separated flag value, dropping empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
