// Package commands implements the ts2swift command line.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teranos/ts2swift/batch"
	"github.com/teranos/ts2swift/config"
	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/logger"
	"github.com/teranos/ts2swift/ts/checker"
	"github.com/teranos/ts2swift/ts/parser"
	"github.com/teranos/ts2swift/typegen/swift"
)

// Exit codes
const (
	ExitOK = 0
	// ExitFailure covers conversion failures and out-of-date outputs
	ExitFailure = 1
	// ExitUsage covers invalid flags and configuration
	ExitUsage = 2
)

// Command annotations read by the pre-run hook
const (
	annotationSkipConfig   = "ts2swift/skip-config"
	annotationSkipValidate = "ts2swift/skip-validate"
)

// flagBindings maps config keys to the flags that override them
var flagBindings = map[string]string{
	"batch.workers":       "workers",
	"swift.capabilities":  "capability",
	"swift.property_case": "property-case",
	"typegen.parser":      "parser",
	"log.json":            "json-logs",
	"log.no_color":        "no-color",
}

// app is the state shared by one command tree
type app struct {
	configFile string
	verbosity  int

	cfg   *config.Config
	viper *viper.Viper
}

// pathFlags are the --input and --output flags of the converting commands
type pathFlags struct {
	input  string
	output string
}

// Execute runs the command line with args and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	logger.Cleanup()
	if err == nil {
		return ExitOK
	}
	reportError(stderr, err)
	return exitCode(err)
}

// NewRootCmd builds the ts2swift command tree
func NewRootCmd() *cobra.Command {
	a := &app{}
	var (
		paths pathFlags
		watch bool
	)

	root := &cobra.Command{
		Use:   "ts2swift --input <file|dir> --output <file|dir>",
		Short: "Convert TypeScript enums and interfaces to Swift",
		Long: `Convert TypeScript declarations into Swift source.

Enums become Swift enums with a raw type, interfaces become structs. A
directory input is mirrored under the output directory, one .swift file
per .ts file; a file input writes a single output file.

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. User config (~/.ts2swift/ts2swift.toml)
  3. Project config (ts2swift.toml, searched upward from the working directory)
  4. Environment variables (TS2SWIFT_* prefix, e.g. TS2SWIFT_BATCH_WORKERS)
  5. Command line flags

Examples:
  ts2swift -i src/models.ts -o Sources/Models.swift
  ts2swift -i src/ -o Sources/Generated/ --capability Codable
  ts2swift -i src/ -o Sources/Generated/ --watch
  ts2swift check -i src/ -o Sources/Generated/`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PreRunE: requireFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, paths, watch)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usage(err)
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Config file (default: search for "+config.FileName+")")
	flags.CountVarP(&a.verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.Bool("json-logs", false, "Write logs as JSON")
	flags.Bool("no-color", false, "Disable colored output")

	addPathFlags(root, &paths)
	addConversionFlags(root)
	root.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and reconvert when sources change")

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func addPathFlags(cmd *cobra.Command, paths *pathFlags) {
	cmd.Flags().StringVarP(&paths.input, "input", "i", "", "TypeScript file or directory to convert")
	cmd.Flags().StringVarP(&paths.output, "output", "o", "", "Swift file or directory to write")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
}

func addConversionFlags(cmd *cobra.Command) {
	cmd.Flags().Int("workers", 0, "Parallel conversions (default: one per CPU)")
	cmd.Flags().StringSlice("capability", nil, "Protocol every enum and struct adopts (repeatable)")
	cmd.Flags().String("property-case", config.DefaultPropertyCase, "Property naming: preserve or camel")
	cmd.Flags().String("parser", config.DefaultParser, "Parser backend: native or tree-sitter")
}

// setup loads configuration and initializes logging for cmd
func (a *app) setup(cmd *cobra.Command) error {
	noColor, _ := cmd.Flags().GetBool("no-color")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	applyColor(!noColor)
	if err := a.initLogger(cmd, jsonLogs, noColor); err != nil {
		return err
	}

	if cmd.Annotations[annotationSkipConfig] == "true" {
		return nil
	}
	if err := a.loadConfig(cmd); err != nil {
		return err
	}

	applyColor(!a.cfg.Log.NoColor)
	if err := a.initLogger(cmd, a.cfg.Log.JSON, a.cfg.Log.NoColor); err != nil {
		return err
	}

	if cmd.Annotations[annotationSkipValidate] == "true" {
		return nil
	}
	if err := a.cfg.Validate(); err != nil {
		return invalidConfig(err)
	}
	return nil
}

func (a *app) initLogger(cmd *cobra.Command, jsonLogs, noColor bool) error {
	err := logger.Initialize(logger.Options{
		JSON:      jsonLogs,
		Verbosity: a.verbosity,
		NoColor:   noColor,
		Output:    cmd.ErrOrStderr(),
	})
	return errors.Wrap(err, "failed to initialize logger")
}

// loadConfig resolves the configuration cascade with cmd's flags on top
func (a *app) loadConfig(cmd *cobra.Command) error {
	v, sources, err := config.NewViper(config.LoadOptions{File: a.configFile})
	if err != nil {
		return err
	}
	for key, name := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", name)
		}
		if flag.Changed {
			sources.MarkFlag(key, name)
		}
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}
	cfg.Sources = sources
	a.cfg, a.viper = cfg, v
	return nil
}

// newRunner creates a batch runner for paths from the loaded configuration
func (a *app) newRunner(paths pathFlags) *batch.Runner {
	return batch.New(batch.Options{
		Input:           paths.input,
		Output:          paths.output,
		Workers:         a.cfg.Batch.Workers,
		Exclude:         a.cfg.Batch.Exclude,
		SourceExtension: a.cfg.Batch.SourceExtension,
		TargetExtension: a.cfg.Batch.TargetExtension,
		Checker: checker.Options{
			ArrayTypes: a.cfg.Typegen.ArrayTypes,
			Parser:     parser.Backend(a.cfg.Typegen.Parser),
		},
	}, swift.NewGenerator(a.cfg.SwiftOptions()))
}

// usage marks err as a usage error without changing its message
func usage(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, errors.ErrInvalidRequest)
}

func noArgs(cmd *cobra.Command, args []string) error {
	return usage(cobra.NoArgs(cmd, args))
}

// requireFlags runs cobra's required flag check early so a missing flag
// is reported as a usage error
func requireFlags(cmd *cobra.Command, args []string) error {
	return usage(cmd.ValidateRequiredFlags())
}

// invalidConfig classifies a validation failure as a usage error
func invalidConfig(err error) error {
	err = errors.WithHint(err, "run 'ts2swift config where' to see which source sets it")
	return errors.Wrap(errors.Mark(err, errors.ErrInvalidRequest), "configuration validation failed")
}

func applyColor(enabled bool) {
	if enabled {
		pterm.EnableColor()
		pterm.EnableStyling()
		return
	}
	pterm.DisableColor()
	pterm.DisableStyling()
}

// reportError prints err and its hints for the operator. Parse errors get
// a source excerpt when color is enabled.
func reportError(w io.Writer, err error) {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) && pterm.PrintColor {
		fmt.Fprintln(w, parseErr.FormatError(parser.ErrorContextTerminal))
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errors.ErrInvalidRequest):
		return ExitUsage
	default:
		return ExitFailure
	}
}
