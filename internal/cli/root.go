// Package cli implements the qcpipe command-line interface.
//
// Commands are built with cobra and share an [App] that holds every
// dependency a command needs. Production code gets real dependencies from
// [NewApp]; tests construct an [App] with mocks and call
// [NewRootCommand] or [RunWithConfig] directly.
//
// Commands:
//   - run: execute the QC pipeline
//   - plan: show what a run would do without doing it
//   - samples: load and validate the sample sheet
//   - status: show the result of the last run
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"qcpipe/internal/config"
	"qcpipe/internal/output"
	"qcpipe/internal/tools"
)

// Version is the qcpipe version, set at build time with -ldflags.
var Version = "dev"

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "config.yaml"

// App holds the dependencies shared by all commands.
//
// Config is loaded from the --config flag when a command starts unless it
// is already set, which lets tests inject a configuration directly.
type App struct {
	Config   *config.Config
	Printer  *output.Printer
	Executor tools.Executor
	Resolver *tools.Resolver

	// Now returns the current time. It defaults to time.Now.
	Now func() time.Time

	configPath string

	// baseCtx is the parent of the command context. It defaults to
	// context.Background.
	baseCtx context.Context
}

// NewApp creates an [App] wired to the real process executor, PATH lookup
// and stdout.
func NewApp() *App {
	return &App{
		Printer:  output.NewPrinter(),
		Executor: tools.NewProcessExecutor(),
		Resolver: tools.NewResolver(),
		Now:      time.Now,
	}
}

func (app *App) now() time.Time {
	if app.Now == nil {
		return time.Now()
	}
	return app.Now()
}

// loadConfig reads the config file named by --config, unless a
// configuration was injected.
func (app *App) loadConfig() error {
	if app.Config == nil {
		cfg, err := config.NewLoader().LoadFromFile(app.configPath)
		if err != nil {
			return err
		}
		app.Config = cfg
	}
	app.Printer.SetColor(app.Config.Output.Color)
	return nil
}

// NewRootCommand creates the root cobra command with all subcommands.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qcpipe",
		Short: "Paired-end read QC pipeline driver",
		Long: `qcpipe runs FastQC, fastp and MultiQC over the samples in a sample sheet.

Each step is skipped when its outputs already exist, so an interrupted run
can simply be started again. Results are written to the output directory
together with a run log, a machine-readable status file and QC_REPORT.md.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", DefaultConfigPath, "path to the YAML config file")

	rootCmd.AddCommand(
		newRunCommand(app),
		newPlanCommand(app),
		newSamplesCommand(app),
		newStatusCommand(app),
	)

	return rootCmd
}

// ExecuteResult is the outcome of a CLI invocation.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig runs the CLI with args and returns the exit code instead of
// exiting. SIGINT and SIGTERM cancel the context passed to commands, which
// stops the running tool.
func RunWithConfig(app *App, args []string) ExecuteResult {
	parent := app.baseCtx
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{ExitCode: 0}
}

// Execute runs the CLI with the process arguments and exits.
func Execute() {
	result := RunWithConfig(NewApp(), os.Args[1:])
	reportError(os.Stderr, result)
	os.Exit(result.ExitCode)
}

// reportError prints a diagnostic for errors that carry no exit code of
// their own.
func reportError(w io.Writer, result ExecuteResult) {
	if result.Err == nil {
		return
	}
	if _, ok := IsExitError(result.Err); ok {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", result.Err)
}
