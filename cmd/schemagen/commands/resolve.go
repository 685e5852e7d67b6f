package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/am"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typegen"
	"github.com/teranos/schemagen/watch"
)

type resolveFlags struct {
	format string
	output string
	watch  bool
}

func newResolveCmd(a *app) *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve <document>",
		Short: "Resolve a document into a registry dump",
		Long: `Resolve every component and message payload of a document and print the
registry of named type declarations.

Diagnostics (invalid defaults, dropped constraints, name collisions) are
reported on stderr and never abort generation. Unsupported shapes and
missing references are fatal.

Examples:
  schemagen resolve api.yaml
  schemagen resolve api.yaml --format yaml --output types.yaml
  schemagen resolve api.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run := func() error {
				return a.resolveOnce(cmd, args[0], flags)
			}
			if !flags.watch {
				return run()
			}
			return a.resolveWatching(cmd, args[0], run)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: json, yaml (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default from config, empty: stdout)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Regenerate when the document or config changes")

	return cmd
}

func (a *app) resolveOnce(cmd *cobra.Command, path string, flags resolveFlags) error {
	format := outputFormat(flags.format, a.cfg)
	output := flags.output
	if output == "" {
		output = a.cfg.Output.Path
	}

	res, err := a.generate(path)
	if err != nil {
		return err
	}
	data, err := res.Marshal(format)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if err := renderDiagnostics(stderr, res.Diagnostics); err != nil {
		return err
	}
	renderWarnings(stderr, res.Warnings)

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), am.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", output)
	}
	if err := os.WriteFile(output, data, am.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", output)
	}
	renderSuccess(stderr, "Wrote %d types to %s", len(res.Types), output)
	return nil
}

// resolveWatching runs once, then again on every change of the document or a config file
func (a *app) resolveWatching(cmd *cobra.Command, path string, run func() error) error {
	if err := run(); err != nil {
		// Keep watching so the next save can fix it
		renderError(cmd.ErrOrStderr(), err)
	}

	configFiles := a.configFiles()
	w, err := watch.New(append([]string{path}, configFiles...))
	if err != nil {
		return err
	}

	isConfig := make(map[string]bool, len(configFiles))
	for _, f := range configFiles {
		if abs, err := filepath.Abs(f); err == nil {
			isConfig[abs] = true
		}
	}

	w.OnChange(func(changed string) error {
		if abs, err := filepath.Abs(changed); err == nil && isConfig[abs] {
			if err := a.reloadConfig(); err != nil {
				renderError(cmd.ErrOrStderr(), err)
				return err
			}
			logger.Infow("Config reloaded", logger.FieldFile, changed)
		}
		if err := run(); err != nil {
			renderError(cmd.ErrOrStderr(), err)
			return err
		}
		return nil
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching", path, "(Ctrl+C to stop)")
	return w.Run(ctx)
}

// outputFormat picks the flag value, falling back to the configured format
func outputFormat(flag string, cfg *am.Config) typegen.Format {
	if flag != "" {
		return typegen.Format(flag)
	}
	return typegen.Format(cfg.Output.Format)
}
