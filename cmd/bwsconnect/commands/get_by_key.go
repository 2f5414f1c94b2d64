package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/bwsconnect/internal/config"
	dserrors "github.com/systmms/bwsconnect/internal/errors"
	"github.com/systmms/bwsconnect/internal/output"
	"github.com/systmms/bwsconnect/internal/resolve"
)

func NewGetByKeyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-by-key <key> [organization_id]",
		Short: "Get a secret by key",
		Long: `Look up a secret by its key in the organization and print it.

Unlike template rendering, a key that does not exist is an error.

Examples:
  bwsconnect get-by-key minio_tf_volsync --field secret_key
  bwsconnect get-by-key db 9a5b1c3e-... --parse-value`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			org, err := cfg.OrganizationID(optionalArg(args, 1))
			if err != nil {
				return err
			}

			client, release, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer release()

			resolver := resolve.New(client, org, resolve.WithLogger(cfg.Logger))
			id, found, err := resolver.FindID(cmd.Context(), key)
			if err != nil {
				return apiError("list", err)
			}
			if !found {
				return dserrors.UserError{
					Message:    "secret with key not found",
					Details:    "key: " + key,
					Suggestion: "Keys are case-sensitive; run 'bwsconnect list' to see them",
				}
			}

			body, err := client.GetSecret(cmd.Context(), id)
			if err != nil {
				return apiError("get", err)
			}
			return output.Print(cmd.OutOrStdout(), body, printOptions(cfg))
		},
	}

	return cmd
}
