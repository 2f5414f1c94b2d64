package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/bwsconnect/internal/config"
	"github.com/systmms/bwsconnect/internal/output"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a secret by ID",
		Long: `Fetch one secret by its ID and print the response.

Examples:
  bwsconnect get 5c1e2a4b-...
  bwsconnect get 5c1e2a4b-... --parse-value
  bwsconnect get 5c1e2a4b-... --field password`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, release, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer release()

			body, err := client.GetSecret(cmd.Context(), id)
			if err != nil {
				return apiError("get", err)
			}
			return output.Print(cmd.OutOrStdout(), body, printOptions(cfg))
		},
	}

	return cmd
}

func NewGetByIDsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-by-ids <id,id,...>",
		Short: "Get several secrets by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[0])
			if err != nil {
				return err
			}

			client, release, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer release()

			body, err := client.GetSecretsByIDs(cmd.Context(), ids)
			if err != nil {
				return apiError("get-by-ids", err)
			}
			return output.Print(cmd.OutOrStdout(), body, printOptions(cfg))
		},
	}

	return cmd
}
