package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikicollage/internal/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

// configPathCommand prints the file in use, or the search locations.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Find(c.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path != "" {
				fmt.Fprintln(out, path)
				return nil
			}
			fmt.Fprintln(out, StyleDim.Render("no config file found; searched:"))
			fmt.Fprintln(out, "  "+config.DefaultFileName)
			fmt.Fprintln(out, "  "+config.UserPath())
			return nil
		},
	}
}

// configShowCommand prints the effective configuration as TOML.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	}
}
