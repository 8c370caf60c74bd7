package cmd

import (
	"fmt"

	"github.com/rzbill/botconfig/pkg/crypto"
	"github.com/spf13/cobra"
)

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage bot secrets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Generate a random bot secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := crypto.GenerateSecret()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	})
	return cmd
}
