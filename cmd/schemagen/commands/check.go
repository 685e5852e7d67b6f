package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/typegen"
)

// ErrOutOfDate is returned by check when the dump on disk differs
var ErrOutOfDate = errors.New("registry dump is out of date")

func newCheckCmd(a *app) *cobra.Command {
	var against, format string

	cmd := &cobra.Command{
		Use:   "check <document>",
		Short: "Check that an existing registry dump is up to date",
		Long: `Regenerate the registry dump in memory and compare it with an existing file.

The format is taken from --format, then from the file extension
(.yaml/.yml is yaml, anything else json).

Exit codes:
  0 - Dump is up to date
  1 - Dump is out of date or generation failed

Examples:
  schemagen check api.yaml --against types.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := os.ReadFile(against)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", against)
			}

			res, err := a.generate(args[0])
			if err != nil {
				return err
			}
			fresh, err := res.Marshal(checkFormat(format, against))
			if err != nil {
				return err
			}

			if bytes.Equal(bytes.TrimSpace(fresh), bytes.TrimSpace(existing)) {
				renderSuccess(cmd.ErrOrStderr(), "%s is up to date", against)
				return nil
			}

			line, want, got := firstDifference(string(fresh), string(existing))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s differs at line %d:\n  want: %s\n  have: %s\n", against, line, want, got)
			return errors.WithHint(
				errors.Wrapf(ErrOutOfDate, "%s", against),
				"run 'schemagen resolve "+args[0]+" --output "+against+"' to update")
		},
	}

	cmd.Flags().StringVar(&against, "against", "", "Existing registry dump to compare with")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Dump format: json, yaml (default from file extension)")
	_ = cmd.MarkFlagRequired("against")

	return cmd
}

func checkFormat(flag, path string) typegen.Format {
	if flag != "" {
		return typegen.Format(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return typegen.FormatYAML
	default:
		return typegen.FormatJSON
	}
}

// firstDifference returns the 1-based line where want and have diverge
func firstDifference(want, have string) (int, string, string) {
	wantLines := strings.Split(strings.TrimSpace(want), "\n")
	haveLines := strings.Split(strings.TrimSpace(have), "\n")
	for i := 0; ; i++ {
		var w, h string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(haveLines) {
			h = haveLines[i]
		}
		if w != h || (i >= len(wantLines) && i >= len(haveLines)) {
			return i + 1, strings.TrimSpace(w), strings.TrimSpace(h)
		}
	}
}
