package cmd

import (
	"github.com/spf13/cobra"
)

func newGetCmd(global *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id-or-name>",
		Short: "Show one service of a bot file",
		Long: `Show one service of a bot file, looked up by id first and then by name.
Encrypted fields are shown decrypted when a secret is available.`,
		Args: cobra.ExactArgs(1),
		Example: `  # Show the weather LUIS model with its keys decrypted
  botconfig get weather --secret-file ./bot.secret -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadBot()
			if err != nil {
				return err
			}
			svc, err := cfg.GetService(args[0])
			if err != nil {
				return err
			}
			return outputResource(cmd.OutOrStdout(), svc, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format (json, yaml)")
	return cmd
}
