package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ts2swift/errors"
)

func newCheckCmd(a *app) *cobra.Command {
	var paths pathFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that generated Swift is up to date",
		Long: `Convert every input in memory and compare the result with the files
under --output. Nothing is written.

Exit codes:
  0 - Outputs are up to date
  1 - Outputs are missing or out of date (listed), or a source failed to convert
  2 - Invalid flags or configuration

Examples:
  ts2swift check -i src/ -o Sources/Generated/`,
		Args:    noArgs,
		PreRunE: requireFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, paths)
		},
	}
	addPathFlags(cmd, &paths)
	addConversionFlags(cmd)
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, paths pathFlags) error {
	out := cmd.OutOrStdout()

	result, err := a.newRunner(paths).Check(cmd.Context())
	if result == nil {
		return err
	}

	if result.UpToDate && err == nil {
		pterm.Success.WithWriter(out).Println("Generated Swift is up to date")
		return nil
	}

	for _, path := range result.Missing {
		pterm.Warning.WithWriter(out).Printfln("missing  %s", path)
	}
	for _, path := range result.Stale {
		pterm.Warning.WithWriter(out).Printfln("stale    %s", path)
	}
	if err != nil {
		return errors.Wrap(err, "check failed")
	}

	count := len(result.Missing) + len(result.Stale)
	return errors.WithHintf(
		errors.Wrapf(errors.ErrStale, "%d generated files", count),
		"run 'ts2swift --input %s --output %s' to regenerate", paths.input, paths.output)
}
