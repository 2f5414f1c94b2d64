package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/bwsconnect/internal/config"
	"github.com/systmms/bwsconnect/internal/output"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list [organization_id]",
		Short: "List secrets in the organization",
		Long: `List secret identifiers (id, key) in the organization.

Examples:
  bwsconnect list
  bwsconnect list --output yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			org, err := cfg.OrganizationID(optionalArg(args, 0))
			if err != nil {
				return err
			}

			client, release, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer release()

			body, err := client.ListSecretsRaw(cmd.Context(), org)
			if err != nil {
				return apiError("list", err)
			}

			opts := printOptions(cfg)
			if format != "" {
				opts.Format = f
			}
			return output.Print(cmd.OutOrStdout(), body, opts)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format for the decoded listing (json, yaml)")

	return cmd
}
