package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/typegen"
)

func renderDiagnostics(w io.Writer, diags []typegen.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}

	data := pterm.TableData{{"Kind", "Schema", "Path", "Message"}}
	for _, d := range diags {
		data = append(data, []string{string(d.Kind), d.Schema, d.Path, d.Message})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render diagnostics")
	}

	fmt.Fprintln(w, pterm.Warning.Sprintf("%d diagnostics", len(diags)))
	fmt.Fprintln(w, table)
	return nil
}

func renderWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintln(w, pterm.Warning.Sprint(warning))
	}
}

func renderSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, pterm.Success.Sprintf(format, args...))
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, pterm.Error.Sprint(err))
}
