package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/aditor/internal/app"
)

// configEnv names the environment variable holding the default config path.
const configEnv = "ADITOR_CONFIG"

type globalOptions struct {
	configPath string
	logLevel   string

	// metrics is set by commands that report dispatch statistics.
	metrics bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "aditor",
		Short:         "Inspect, edit and convert rich-text documents",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv(configEnv), "path to configuration file (toml or yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newShowCmd(opts),
		newExportCmd(opts),
		newRunCmd(opts),
		newWatchCmd(opts),
		newValidateCmd(opts),
	)
	return cmd
}

// open builds the application and opens the document at path. The caller
// shuts the application down.
func (o *globalOptions) open(path string) (*app.Application, *app.Document, error) {
	switch o.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", o.logLevel)
	}

	application, err := app.New(app.Options{
		ConfigPath: o.configPath,
		LogLevel:   o.logLevel,
		Metrics:    o.metrics,
	})
	if err != nil {
		return nil, nil, err
	}
	doc, err := application.Open(path)
	if err != nil {
		_ = application.Shutdown()
		return nil, nil, err
	}
	return application, doc, nil
}
