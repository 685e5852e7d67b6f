// Package commands implements the schemagen command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/am"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen"
)

// app is the state shared by every subcommand of one invocation
type app struct {
	configPath string
	verbose    int
	cfg        *am.Config
}

// NewRootCmd builds the schemagen command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "schemagen",
		Short: "Resolve interface-specification schemas into type descriptors",
		Long: `schemagen - Resolve OpenAPI, AsyncAPI and JSON Schema documents into a
language-agnostic registry of named type declarations.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (SCHEMAGEN_* prefix)
3. Project config (./schemagen.toml, searched upward)
4. User config (~/.schemagen/schemagen.toml)
5. Default values

Examples:
  schemagen resolve api.yaml                    # Print the registry dump as JSON
  schemagen resolve api.yaml -f yaml -o out.yaml
  schemagen resolve api.yaml --watch            # Regenerate on change
  schemagen check api.yaml --against types.json # Fail when the dump is stale
  schemagen config show --sources               # Show where settings come from`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Commands that must work with a broken or missing config
			switch cmd.Name() {
			case "version", "init", "output-schema":
				return nil
			}
			if err := a.loadConfig(); err != nil {
				return err
			}
			if err := logger.Initialize(a.cfg.Log.JSON, a.cfg.Log.Verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: schemagen.toml search)")
	root.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	root.AddCommand(newResolveCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newOutputSchemaCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig reads the configuration, applies the -v override and validates it
func (a *app) loadConfig() error {
	var (
		loaded *am.Config
		err    error
	)
	if a.configPath != "" {
		loaded, err = am.LoadFromFile(a.configPath)
	} else {
		loaded, err = am.Load()
	}
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	// am.Load caches its result; never mutate it
	cfg := *loaded
	if a.verbose > cfg.Log.Verbosity {
		cfg.Log.Verbosity = a.verbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = &cfg
	return nil
}

// reloadConfig drops cached configuration and loads it again
func (a *app) reloadConfig() error {
	am.Reset()
	return a.loadConfig()
}

// configFiles returns the files the active configuration was read from
func (a *app) configFiles() []string {
	if a.configPath != "" {
		return []string{a.configPath}
	}
	return am.ConfigFilesUsed()
}

// generate loads the document at path and runs one generation pass
func (a *app) generate(path string) (*typegen.Result, error) {
	doc, err := schema.Load(path, parseOptions(a.cfg))
	if err != nil {
		return nil, err
	}
	return typegen.Generate(doc, generatorOptions(a.cfg))
}

func parseOptions(cfg *am.Config) schema.ParseOptions {
	return schema.ParseOptions{NullableExtension: cfg.Generator.NullableExtension}
}

func generatorOptions(cfg *am.Config) typegen.Options {
	g := cfg.Generator
	return typegen.Options{
		Precedence:            typegen.Precedence(g.Classification),
		HonorCallerNullable:   g.HonorCallerNullable,
		ConstraintSuppression: typegen.Suppression(g.ConstraintSuppression),
		UnionMemberSuffix:     g.UnionMemberSuffix,
		ArrayItemSuffix:       g.ArrayItemSuffix,
		MapValueSuffix:        g.MapValueSuffix,
		MessagePayloadSuffix:  g.MessagePayloadSuffix,
		Logger:                logger.ComponentLogger("typegen"),
	}
}
