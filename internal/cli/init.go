package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ledger storage",
		Long:  "Create the configuration directory and config.yaml, then create the ledger tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return fmt.Errorf("finalize storage: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ledger initialized successfully")
			return nil
		},
	}
}
