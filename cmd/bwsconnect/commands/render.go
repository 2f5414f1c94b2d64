package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/bwsconnect/internal/config"
	"github.com/systmms/bwsconnect/internal/resolve"
	"github.com/systmms/bwsconnect/internal/template"
)

func NewRenderCommand(cfg *config.Config) *cobra.Command {
	var (
		outputPath  string
		permissions string
		cache       bool
		concurrency int
		scheme      string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Replace bws:// placeholders in a file with secret values",
		Long: `Read a template from a file or stdin and replace every placeholder of the
form bws://<key>[/<path>] with the matching secret value.

Without a path, the field named after the key is used when the secret value
has one, and the whole value otherwise. A path selects a nested field, using
"/" or "." as separator. Placeholders that cannot be resolved are left as
they are. A placeholder alone on an indented line receives multiline values
indented to match, so YAML block scalars stay valid.

Examples:
  bwsconnect render secret.yaml.tpl > secret.yaml
  bwsconnect render values.tpl --out values.yaml --permissions 0600
  cat app.conf.tpl | bwsconnect render --cache --concurrency 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var perms os.FileMode = 0600 // Default: owner read/write only
			if permissions != "" {
				n, err := fmt.Sscanf(permissions, "%o", &perms)
				if err != nil || n != 1 {
					return fmt.Errorf("invalid permissions format, use octal like '0644'")
				}
			}

			settings := cfg.Settings
			if cmd.Flags().Changed("cache") {
				settings.Cache = cache
			}
			if cmd.Flags().Changed("concurrency") {
				settings.Concurrency = concurrency
			}
			if cmd.Flags().Changed("scheme") {
				settings.Scheme = scheme
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			input, err := readInput(cmd, optionalArg(args, 0))
			if err != nil {
				return err
			}

			org, err := cfg.OrganizationID("")
			if err != nil {
				return err
			}

			client, release, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer release()

			opts := []resolve.Option{
				resolve.WithLogger(cfg.Logger),
				resolve.WithTimeout(settings.Timeout),
			}
			if settings.Cache {
				opts = append(opts, resolve.WithCache())
			}

			renderer := template.NewRenderer(
				resolve.New(client, org, opts...),
				template.WithScanner(template.NewScanner(settings.Scheme)),
				template.WithLogger(cfg.Logger),
				template.WithMetrics(cfg.Metrics),
				template.WithConcurrency(settings.Concurrency),
			)

			rendered, err := renderer.Render(cmd.Context(), input)
			if err != nil {
				return apiError("render", err)
			}

			if outputPath == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), rendered+"\n")
				return err
			}

			if err := os.WriteFile(outputPath, []byte(rendered), perms); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := os.Chmod(outputPath, perms); err != nil {
				return fmt.Errorf("failed to set permissions: %w", err)
			}
			cfg.Logger.Info("Rendered to %s", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "out", "", "Write the result to this file instead of stdout")
	cmd.Flags().StringVar(&permissions, "permissions", "0600", "File permissions for --out (octal)")
	cmd.Flags().BoolVar(&cache, "cache", false, "Fetch each secret once per render instead of once per placeholder")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of placeholders resolved in parallel")
	cmd.Flags().StringVar(&scheme, "scheme", template.DefaultScheme, "Placeholder scheme")

	return cmd
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading input file: %w", err)
	}
	return string(data), nil
}
