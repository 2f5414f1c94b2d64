package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/bwsconnect/internal/bws"
	"github.com/systmms/bwsconnect/internal/config"
	"github.com/systmms/bwsconnect/internal/output"
)

func NewCreateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <key> <value> [note] [project_ids]",
		Short: "Create a secret",
		Long: `Create a secret in the configured organization.

project_ids is a comma separated list of project IDs.

Examples:
  bwsconnect create db '{"user":"admin","password":"hunter2"}'
  bwsconnect create api_key s3cr3t "rotated monthly" 1f0e...,2a9c...`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := cfg.OrganizationID("")
			if err != nil {
				return err
			}
			projects, err := projectIDs(optionalArg(args, 3))
			if err != nil {
				return err
			}

			client, release, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer release()

			body, err := client.CreateSecret(cmd.Context(), bws.SecretCreateRequest{
				Key:            args[0],
				Value:          args[1],
				Note:           optionalNote(args, 2),
				OrganizationID: &org,
				ProjectIDs:     projects,
			})
			if err != nil {
				return apiError("create", err)
			}
			return output.Print(cmd.OutOrStdout(), body, printOptions(cfg))
		},
	}

	return cmd
}

func NewUpdateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id> <key> <value> [note] [project_ids]",
		Short: "Update a secret",
		Args:  cobra.RangeArgs(3, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			org, err := cfg.OrganizationID("")
			if err != nil {
				return err
			}
			projects, err := projectIDs(optionalArg(args, 4))
			if err != nil {
				return err
			}

			client, release, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer release()

			body, err := client.UpdateSecret(cmd.Context(), bws.SecretPutRequest{
				ID:             id,
				Key:            args[1],
				Value:          args[2],
				Note:           optionalNote(args, 3),
				OrganizationID: &org,
				ProjectIDs:     projects,
			})
			if err != nil {
				return apiError("update", err)
			}
			return output.Print(cmd.OutOrStdout(), body, printOptions(cfg))
		},
	}

	return cmd
}

func NewDeleteCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id,id,...>",
		Short: "Delete secrets by ID",
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

			body, err := client.DeleteSecrets(cmd.Context(), ids)
			if err != nil {
				return apiError("delete", err)
			}
			cfg.Logger.Debug("deleted %d secrets", len(ids))
			return output.Print(cmd.OutOrStdout(), body, output.Options{})
		},
	}

	return cmd
}

func optionalNote(args []string, i int) *string {
	if i >= len(args) {
		return nil
	}
	note := args[i]
	return &note
}

func projectIDs(list string) ([]string, error) {
	if list == "" {
		return nil, nil
	}
	ids := splitList(list)
	for _, id := range ids {
		if _, err := parseID(id); err != nil {
			return nil, fmt.Errorf("project_ids: %w", err)
		}
	}
	return ids, nil
}
