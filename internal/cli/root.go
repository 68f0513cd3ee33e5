// Package cli implements the ledger command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/logger"
	"github.com/mesh-intelligence/ledger/pkg/ledger"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	dsn       string
	logLevel  string
}

// app carries the state shared by the commands of one invocation.
type app struct {
	flags rootFlags
}

// NewRootCmd creates the top-level "ledger" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ledger",
		Short: "Store and query the resource ledger",
		Long: "Ledger manages users, clients, resources, resource data, resource got\n" +
			"and user profiles on an SQLite or PostgreSQL database.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (env LEDGER_CONFIG_DIR)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory of the sqlite backend (default: .ledger-db)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: sqlite or postgres")
	pf.StringVar(&a.flags.dsn, "dsn", "", "postgres connection string")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newGetCmd())
	root.AddCommand(a.newCreateCmd())
	root.AddCommand(a.newUpdateCmd())
	root.AddCommand(a.newPatchCmd())
	root.AddCommand(a.newDeleteCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ledger:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps errors caused by the input to exitUserError and everything
// else to exitSysError.
func exitCode(err error) int {
	userErrors := []error{
		types.ErrNotFound, types.ErrConflict, types.ErrInvalidID, types.ErrInvalidData,
		types.ErrTypeMismatch, types.ErrUnknownColumn, types.ErrUnknownAssociation,
		types.ErrInvalidSort, types.ErrInvalidFilter, types.ErrTableNotFound, errUsage,
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// openStore loads the configuration, sets up logging and opens the store.
// The returned context carries the operation logger.
func (a *app) openStore(cmd *cobra.Command) (context.Context, *ledger.Store, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, usageError("%v", err)
	}
	logger.InitLogger(level)

	ctx, log := logger.ContextWithLogger(cmd.Context())
	log.WithField("backend", cfg.Backend).WithField("command", cmd.Name()).Debug("opening store")

	store, err := ledger.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return ctx, store, nil
}

func (a *app) table(store *ledger.Store, kind string) (types.Table, error) {
	t, err := store.GetTable(kind)
	if err != nil {
		return nil, fmt.Errorf("unknown kind %q (valid: %s): %w", kind, validKinds, err)
	}
	return t, nil
}

func closeStore(store *ledger.Store, w io.Writer) {
	if err := store.Close(); err != nil {
		fmt.Fprintln(w, "ledger: close:", err)
	}
}
