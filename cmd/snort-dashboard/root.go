package main

import (
	"encoding/json"
	"fmt"
	"io"

	"snort-dashboard/internal/dashboard"
	"snort-dashboard/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cli carries the state shared by every subcommand
type cli struct {
	configFile string
	logLevel   string

	// overridable in tests
	newService func(config *utils.DashboardConfig, logger *logrus.Logger) (*dashboard.Service, error)
}

func newCLI() *cli {
	return &cli{
		newService: func(config *utils.DashboardConfig, logger *logrus.Logger) (*dashboard.Service, error) {
			return dashboard.NewService(config, logger, nil)
		},
	}
}

func newRootCmd() *cobra.Command {
	return newCLI().command()
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "snort-dashboard",
		Short: "Inspect Snort alert logs, rules and IP lists",
		Long: `snort-dashboard reads the on-disk artifacts of a Snort sensor:
alert logs in JSON and fast format, rule files and IP allow/deny lists.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", utils.DefaultConfigFile, "Configuration file path (YAML)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")

	root.AddCommand(
		c.logsCmd(),
		c.summaryCmd(),
		c.rulesCmd(),
		c.clearCmd(),
	)
	return root
}

// service loads the configuration and builds the query façade
func (c *cli) service() (*dashboard.Service, error) {
	// diagnostics go to stderr, command output to stdout
	logger := utils.NewLogger("WARN")

	config, err := utils.LoadConfig(c.configFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.logLevel != "" {
		config.Logging.Level = c.logLevel
	}

	logger = utils.NewLoggerFromConfig(config.Logging)
	if c.logLevel == "" {
		logger.SetLevel(logrus.WarnLevel)
	}

	return c.newService(config, logger)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
