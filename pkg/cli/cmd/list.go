package cmd

import (
	"github.com/rzbill/botconfig/pkg/types"
	"github.com/spf13/cobra"
)

type listOptions struct {
	serviceTypes []string
	output       string
}

func newListCmd(global *globalOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the services of a bot file",
		Args:    cobra.NoArgs,
		Example: `  # List every service of the bot file in the current directory
  botconfig list

  # List LUIS and dispatch models as JSON
  botconfig list --type luis --type dispatch -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, global, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.serviceTypes, "type", "t", nil, "Only list services of this type (endpoint, abs, luis, qna, dispatch)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "Output format (table, json, yaml)")
	return cmd
}

func runList(cmd *cobra.Command, global *globalOptions, opts *listOptions) error {
	serviceTypes := make([]types.ServiceType, 0, len(opts.serviceTypes))
	for _, s := range opts.serviceTypes {
		st, err := types.ParseServiceType(s)
		if err != nil {
			return err
		}
		serviceTypes = append(serviceTypes, st)
	}

	cfg, err := global.loadBot()
	if err != nil {
		return err
	}
	return outputResource(cmd.OutOrStdout(), cfg.ListServices(serviceTypes...), opts.output)
}
