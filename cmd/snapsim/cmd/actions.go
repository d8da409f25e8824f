package cmd

import (
	"fmt"

	"github.com/sarchlab/snapsim/doublemult"
	"github.com/sarchlab/snapsim/registry"
	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions in the process wide registry.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		err := registry.Initialize(doublemult.Registrar())
		if err != nil {
			return err
		}
		defer registry.Teardown()

		for _, e := range registry.Default().Entries() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.Key.String(), e.Name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}
