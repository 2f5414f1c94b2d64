package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/bwsconnect/internal/config"
	"github.com/systmms/bwsconnect/internal/credentials"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the access token in the OS keyring",
		Long: `Read a Bitwarden Secrets Manager machine account access token from stdin
and store it in the OS keyring. Later commands use it when neither
--access-token nor WARDEN_ACCESS_TOKEN is set.

Examples:
  bwsconnect login < token.txt
  pass show bws/token | bwsconnect login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readToken(cmd.InOrStdin())
			if err != nil {
				return err
			}

			if err := credentialStore(cfg).Save(token); err != nil {
				return err
			}
			cfg.Logger.Info("Access token stored in OS keyring (service %q)", credentials.KeyringService)
			return nil
		},
	}

	return cmd
}

func NewLogoutCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the access token from the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := credentialStore(cfg).Remove()
			if err != nil {
				return err
			}
			if !removed {
				cfg.Logger.Warn("No access token was stored")
				return nil
			}
			cfg.Logger.Info("Access token removed from OS keyring")
			return nil
		},
	}

	return cmd
}

func credentialStore(cfg *config.Config) *credentials.Store {
	if cfg.Credentials != nil {
		return cfg.Credentials
	}
	return credentials.NewStore(cfg.Logger)
}

func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading token from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
