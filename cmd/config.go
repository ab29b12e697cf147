package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/pickup/internal/config"
	"github.com/oakwood-commons/pickup/internal/formatter"
)

var configOutput string

// configCmd groups configuration-related subcommands similar to gh-style CLIs.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect pickup configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the merged configuration (defaults, config file and flags)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := formatter.ParseFormat(configOutput)
		if err != nil {
			return err
		}
		data, err := formatter.Encode(format, runCfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.ResolvePath(configFile)
		if path == "" {
			path = "(none: using built-in defaults)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
		return err
	},
}

func init() { //nolint:gochecknoinits
	configGetCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json|toml")
	configCmd.AddCommand(configGetCmd, configPathCmd, configDefaultCmd)
}
