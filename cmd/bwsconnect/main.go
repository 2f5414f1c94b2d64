package main

import (
	"fmt"
	"os"
	"time"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/systmms/bwsconnect/cmd/bwsconnect/commands"
	"github.com/systmms/bwsconnect/internal/config"
	"github.com/systmms/bwsconnect/internal/credentials"
	dserrors "github.com/systmms/bwsconnect/internal/errors"
	"github.com/systmms/bwsconnect/internal/logging"
	"github.com/systmms/bwsconnect/internal/metrics"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	memguard.CatchInterrupt()

	err := run()
	memguard.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dserrors.SimplifyError(err))
		os.Exit(1)
	}
}

func run() error {
	cfg := &config.Config{}
	rootCmd := newRootCommand(cfg, os.Getenv)
	err := rootCmd.Execute()

	if cfg.MetricsFile != "" {
		if werr := cfg.Metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			cfg.Logger.Warn("failed to write metrics: %v", werr)
		}
	}
	return err
}

// globalFlags holds the persistent flags before they are merged into cfg.
type globalFlags struct {
	configFile  string
	baseURL     string
	apiURL      string
	identityURL string
	statePath   string
	caCert      string
	insecure    bool
	timeout     time.Duration
	verbose     bool
	noColor     bool
}

func newRootCommand(cfg *config.Config, getenv func(string) string) *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "bwsconnect",
		Short: "Bitwarden Secrets Manager client for bitwarden-sdk-server",
		Long: `bwsconnect reads and writes Bitwarden Secrets Manager secrets through the
bitwarden-sdk-server REST API and renders bws://key/path placeholders in
configuration files.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(flags.verbose, flags.noColor)
			logger.SetOutput(cmd.ErrOrStderr())

			cfg.Logger = logger
			cfg.Path = flags.configFile
			cfg.PathExplicit = cmd.Flags().Changed("config")
			if cfg.Credentials == nil {
				cfg.Credentials = credentials.NewStore(logger)
			}
			if cfg.MetricsFile != "" && cfg.Metrics == nil {
				cfg.Metrics = metrics.New()
			}

			if err := cfg.Load(getenv); err != nil {
				return err
			}
			applyFlags(cmd.Flags(), &flags, &cfg.Settings)
			return cfg.Settings.Validate()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", config.DefaultPath, "Settings file path")
	pf.StringVar(&flags.baseURL, "base-url", config.DefaultBaseURL, "bitwarden-sdk-server REST API base URL")
	pf.StringVar(&cfg.AccessToken, "access-token", "", "Machine account access token (default: $WARDEN_ACCESS_TOKEN, then OS keyring)")
	pf.StringVar(&flags.apiURL, "api-url", config.DefaultAPIURL, "Bitwarden API URL passed to the server")
	pf.StringVar(&flags.identityURL, "identity-url", config.DefaultIdentityURL, "Bitwarden identity URL passed to the server")
	pf.StringVar(&flags.statePath, "state-path", "", "SDK state file path on the server")
	pf.BoolVar(&flags.insecure, "insecure", false, "Skip TLS certificate verification")
	pf.StringVar(&flags.caCert, "ca-cert", "", "PEM file with an extra trusted CA")
	pf.DurationVar(&flags.timeout, "timeout", config.DefaultTimeout, "Timeout for each API request")
	pf.BoolVar(&cfg.ParseValue, "parse-value", false, "Decode JSON stored in secret values")
	pf.StringVar(&cfg.Field, "field", "", "Print only this field of the secret value (dot or slash path)")
	pf.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")
	pf.BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	pf.BoolVar(&flags.verbose, "debug", false, "Enable debug logging (alias of --verbose)")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		commands.NewGetCommand(cfg),
		commands.NewGetByKeyCommand(cfg),
		commands.NewListCommand(cfg),
		commands.NewGetByIDsCommand(cfg),
		commands.NewCreateCommand(cfg),
		commands.NewUpdateCommand(cfg),
		commands.NewDeleteCommand(cfg),
		commands.NewRenderCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewLogoutCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd
}

// applyFlags overrides settings with the flags given on the command line.
func applyFlags(fs *pflag.FlagSet, flags *globalFlags, s *config.Settings) {
	if fs.Changed("base-url") {
		s.BaseURL = flags.baseURL
	}
	if fs.Changed("api-url") {
		s.APIURL = flags.apiURL
	}
	if fs.Changed("identity-url") {
		s.IdentityURL = flags.identityURL
	}
	if fs.Changed("state-path") {
		s.StatePath = flags.statePath
	}
	if fs.Changed("ca-cert") {
		s.CACert = flags.caCert
	}
	if fs.Changed("insecure") {
		s.Insecure = flags.insecure
	}
	if fs.Changed("timeout") {
		s.Timeout = flags.timeout
	}
}
