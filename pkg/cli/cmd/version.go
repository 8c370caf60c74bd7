package cmd

import (
	"fmt"

	"github.com/rzbill/botconfig/pkg/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the botconfig version information",
		Long:  `Display detailed version information about the botconfig binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" || output == outputTable {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Info())
				return err
			}
			return outputResource(cmd.OutOrStdout(), version.Map(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json, yaml)")
	return cmd
}
