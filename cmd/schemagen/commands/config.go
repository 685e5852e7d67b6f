package commands

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/am"
	"github.com/teranos/schemagen/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage schemagen configuration",
		Long: `Display and initialize schemagen configuration.

Examples:
  schemagen config show                 # Effective configuration as TOML
  schemagen config show --format json
  schemagen config show --sources       # Where each setting comes from
  schemagen config init                 # Write defaults to ./schemagen.toml`,
	}
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string
	var sources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sources {
				return showSources(cmd, a.cfg)
			}
			return showConfig(cmd, a.cfg, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	cmd.Flags().BoolVar(&sources, "sources", false, "Show the source of each setting")
	return cmd
}

func showConfig(cmd *cobra.Command, cfg *am.Config, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(configSettings(cfg))
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# schemagen configuration\n%s", data)

	case "toml":
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# schemagen configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func showSources(cmd *cobra.Command, cfg *am.Config) error {
	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range am.Describe(configSettings(cfg)) {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render config sources")
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

// configSettings flattens cfg into the nested key map viper reports,
// keyed by the TOML names
func configSettings(cfg *am.Config) map[string]interface{} {
	settings := make(map[string]interface{})
	data, err := cfg.Marshal()
	if err != nil {
		return settings
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings
	}
	return settings
}

func newConfigInitCmd() *cobra.Command {
	var path string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return errors.WithHint(
					errors.Newf("%s already exists", path),
					"pass --force to overwrite it; the previous file is kept as a .back1 backup")
			}
			if err := am.Save(am.Defaults(), path); err != nil {
				return err
			}
			renderSuccess(cmd.ErrOrStderr(), "Wrote default configuration to %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", am.ConfigFileName, "Config file to write")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
