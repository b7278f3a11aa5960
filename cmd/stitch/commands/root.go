// Package commands implements the CLI commands for the stitch bundler.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/stitch/internal/app"
	"go.trai.ch/stitch/internal/build"
	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for stitch.
type CLI struct {
	app     Application
	logs    LogSettings
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Bundle(ctx context.Context, opts app.RunOptions) error
	Files(ctx context.Context, opts app.RunOptions, w io.Writer) error
	Watch(ctx context.Context, opts app.RunOptions) error
}

// LogSettings is implemented by loggers whose format and level change at runtime.
type LogSettings interface {
	SetOutput(w io.Writer)
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// New creates a new CLI instance with the given app. logs may be nil.
func New(a Application, logs LogSettings) *CLI {
	rootCmd := &cobra.Command{
		Use:           "stitch",
		Short:         "Concatenate files in the order their dependency headers declare",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to "+domain.ConfigFileName+" (default: search upwards from the working directory)")
	flags.Bool("json", false, "Write logs as JSON")
	flags.Bool("verbose", false, "Log every file as it is read")
	flags.String("dialect", "", "Header dialect: block or line (overrides the config file)")
	flags.Bool("remove-headers", false, "Strip dependency headers from bundled files")
	flags.Int("max-concurrent", 0, "Maximum file system operations in flight (default 10)")

	c := &CLI{
		app:     a,
		logs:    logs,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.configureLogs

	rootCmd.AddCommand(c.newBundleCmd())
	rootCmd.AddCommand(c.newFilesCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
	if c.logs != nil {
		c.logs.SetOutput(err)
	}
}

func (c *CLI) configureLogs(cmd *cobra.Command, _ []string) error {
	if c.logs == nil {
		return nil
	}
	jsonLogs, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	c.logs.SetJSON(jsonLogs)
	c.logs.SetVerbose(verbose)
	return nil
}

// runOptions collects the flags shared by every command.
func runOptions(cmd *cobra.Command) (app.RunOptions, error) {
	configPath, _ := cmd.Flags().GetString("config")
	dialect, _ := cmd.Flags().GetString("dialect")
	removeHeaders, _ := cmd.Flags().GetBool("remove-headers")
	maxConcurrent, _ := cmd.Flags().GetInt("max-concurrent")

	if maxConcurrent < 0 {
		return app.RunOptions{}, zerr.With(domain.ErrInvalidMaxConcurrent, "max_concurrent", maxConcurrent)
	}

	return app.RunOptions{
		ConfigPath:    configPath,
		Dialect:       dialect,
		RemoveHeaders: removeHeaders,
		MaxConcurrent: maxConcurrent,
	}, nil
}
