package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ts2swift/config"
	"github.com/teranos/ts2swift/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage ts2swift configuration",
		Long: `Display and manage ts2swift configuration.

Examples:
  ts2swift config show                 # Effective configuration as TOML
  ts2swift config show --format json   # Same, as JSON
  ts2swift config where                # Which source sets each value
  ts2swift config init                 # Write ./ts2swift.toml with defaults
  ts2swift config validate             # Validate the effective configuration`,
	}
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigWhereCmd(a))
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigValidateCmd(a))
	return cmd
}

func skipValidate() map[string]string {
	return map[string]string{annotationSkipValidate: "true"}
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Show the effective configuration",
		Args:        noArgs,
		Annotations: skipValidate(),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(a.cfg, format)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format != config.FormatJSON {
				fmt.Fprintln(out, "# ts2swift configuration")
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatTOML, "Output format: "+strings.Join(config.Formats, ", "))
	return cmd
}

func newConfigWhereCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		Long: `Show the configuration cascade, which files were checked, and the
source of every effective setting.`,
		Args:        noArgs,
		Annotations: skipValidate(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigWhere(cmd)
		},
	}
}

func (a *app) runConfigWhere(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	sources := a.cfg.Sources

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	step := 1
	fmt.Fprintf(out, "  %d. %s Built-in defaults\n", step, label("default"))
	for _, f := range sources.Files {
		step++
		state := "not found"
		if f.Exists {
			state = "loaded"
		}
		fmt.Fprintf(out, "  %d. %s %s (%s)\n", step, label(string(f.Source)), f.Path, state)
	}
	if !hasSource(sources.Files, config.SourceProject) && !hasSource(sources.Files, config.SourceExplicit) {
		step++
		fmt.Fprintf(out, "  %d. %s no %s found searching up from the working directory\n", step, label("project"), config.FileName)
	}
	fmt.Fprintf(out, "  %d. %s %s_* environment variables\n", step+1, label("env"), config.EnvPrefix)
	fmt.Fprintf(out, "  %d. %s command line flags\n", step+2, label("flag"))
	fmt.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range sources.Settings(a.viper) {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(out).Render()
}

// label renders a cascade source as a fixed-width tag: "[USER]    "
func label(source string) string {
	return fmt.Sprintf("%-10s", "["+strings.ToUpper(source)+"]")
}

func hasSource(files []config.FileInfo, source config.ConfigSource) bool {
	for _, f := range files {
		if f.Source == source {
			return true
		}
	}
	return false
}

func newConfigInitCmd() *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write ts2swift.toml with every setting at its default value.

The file goes to the working directory, or with --global to
~/.ts2swift/ts2swift.toml. An existing file is kept as .back1 (older
copies rotate to .back2 and .back3).`,
		Args:        noArgs,
		Annotations: skipValidate(),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if global {
				home, err := os.UserHomeDir()
				if err != nil {
					return errors.Wrap(err, "failed to locate home directory")
				}
				path = config.UserConfigPath(home)
			}

			_, statErr := os.Stat(path)
			if err := config.WriteFile(path, config.Default()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			abs, _ := filepath.Abs(path)
			pterm.Success.WithWriter(out).Printfln("Wrote %s", abs)
			if statErr == nil {
				pterm.Info.WithWriter(out).Printfln("Previous file kept as %s.back1", abs)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "Write the user config instead of the project config")
	return cmd
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate the effective configuration",
		Args:        noArgs,
		Annotations: skipValidate(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return invalidConfig(err)
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
			return nil
		},
	}
}
