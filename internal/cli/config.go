package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/evcraddock/estateview/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective settings",
			Long:  "Show the settings after the config file, .env and EV_* overrides are applied.",
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:       "set <key> <value>",
			Short:     "Change one setting in the config file",
			Long:      "Change one setting in the config file. Keys: " + strings.Join(config.Keys, ", "),
			Args:      cobra.ExactArgs(2),
			ValidArgs: config.Keys,
			RunE:      runConfigSet,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
	)

	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), cfg)
	}

	if cfg.Redis.Password != "" {
		cfg.Redis.Password = "********"
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = out(cmd).Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := config.ResolvePath(flagConfig)
	if err != nil {
		return err
	}

	cfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]string{"key": args[0], "value": args[1], "path": path})
	}
	_, err = fmt.Fprintf(out(cmd), "Set %s in %s.\n", args[0], path)
	return err
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.ResolvePath(flagConfig)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out(cmd), path)
	return err
}
