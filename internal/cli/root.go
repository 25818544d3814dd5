package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "userdb",
	Short: "Keep a table of users in a local SQLite file",
	Long: `userdb stores user records (id, name, age, address) in an embedded SQLite
database and edits them through a numbered menu.

Run without a subcommand to open the menu. The add, list, update and delete
subcommands perform a single operation for scripting.

Configuration is loaded from userdb.toml in the current or parent directories,
then USERDB_* environment variables (also read from .env), then flags.`,
	Args:         usageArgs(cobra.NoArgs),
	SilenceUsage: true,
	RunE:         runMenu,
}

type rootFlags struct {
	config    string
	db        string
	logLevel  string
	keepGoing bool
	plain     bool
	telemetry bool
}

var flags rootFlags

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&flags.config, "config", "c", "", "config file path (default: userdb.toml)")
	f.StringVar(&flags.db, "db", "", "database file path (default: userdb.db)")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVarP(&flags.keepGoing, "keep-going", "k", false, "report errors in the menu and continue")
	f.BoolVar(&flags.plain, "plain", false, "line-based prompts and unstyled output")
	f.BoolVar(&flags.telemetry, "telemetry", false, "write OpenTelemetry spans and metrics to stderr")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitCodeUsage, Err: err}
	})
}

// Execute runs the command named by os.Args. An error caused by ctx being
// cancelled carries ExitCodeInterrupted.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return &ExitError{Code: ExitCodeInterrupted, Err: err}
	}
	return err
}
