package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
	"github.com/remsfal/remsfal-frontend-sub001/internal/schema"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage stored credentials",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		url     string
		envFile string
		verify  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save credentials to the keychain",
		Long: strings.TrimSpace(`
Save remsfal credentials securely to your OS keychain.

The profile named by --profile (default "default") becomes the current
profile. --token, --path-style and --openapi are stored with it.
`),
		Example: strings.TrimSpace(`
  # Save a token for a server
  remsfal auth login --url https://remsfal.example.com --token YOUR_TOKEN

  # Named profile using colon placeholders for raw calls
  remsfal auth login --url https://staging.remsfal.example.com --token T --profile staging --path-style colon

  # Check the token against the server before saving
  remsfal auth login --url https://remsfal.example.com --token YOUR_TOKEN --verify

  # Read REMSFAL_* values from a .env file
  remsfal auth login --env-file .env
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			creds := config.Credentials{
				BaseURL:   url,
				Token:     flags.Token,
				PathStyle: flags.PathStyle,
				OpenAPI:   flags.OpenAPI,
			}
			profile := flags.Profile

			if envFile != "" {
				envVars, err := godotenv.Read(envFile)
				if err != nil {
					return fmt.Errorf("failed to read env file: %w", err)
				}
				fill := func(dst *string, key string) {
					if *dst == "" {
						*dst = strings.TrimSpace(envVars[key])
					}
				}
				fill(&creds.BaseURL, config.EnvBaseURL)
				fill(&creds.Token, config.EnvToken)
				fill(&creds.PathStyle, config.EnvPathStyle)
				fill(&creds.OpenAPI, config.EnvOpenAPI)
				fill(&profile, config.EnvProfile)
			}

			if creds.BaseURL == "" {
				return fmt.Errorf("--url is required")
			}
			creds.BaseURL = strings.TrimSuffix(strings.TrimSpace(creds.BaseURL), "/")
			if err := validation.ValidateBaseURL(creds.BaseURL); err != nil {
				return fmt.Errorf("invalid URL: %w", err)
			}
			if creds.PathStyle != "" {
				style, err := urltemplate.ParseStyle(creds.PathStyle)
				if err != nil {
					return err
				}
				creds.PathStyle = style.String()
			}
			if creds.OpenAPI != "" {
				if _, err := schema.Load(cmdContext(cmd), creds.OpenAPI); err != nil {
					return err
				}
			}

			if verify {
				client := api.New(creds.BaseURL,
					api.WithToken(creds.Token),
					api.WithHTTPClient(api.NewHTTPClient(flags.Timeout)),
					api.WithUserAgent(fmt.Sprintf("remsfal-cli/%s", version)),
				)
				user, err := client.User().Get(cmdContext(cmd))
				if err != nil {
					return fmt.Errorf("credentials rejected by %s: %w", creds.BaseURL, err)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Verified as %s\n", user.Name())
			}

			if err := config.SaveProfile(profile, creds); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Authentication credentials saved successfully!")
			_, _ = fmt.Fprintf(out, "  Base URL: %s\n", creds.BaseURL)
			if profile != "" && profile != "default" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			}
			if creds.PathStyle != "" {
				_, _ = fmt.Fprintf(out, "  Path style: %s\n", creds.PathStyle)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&url, "url", "", "remsfal base URL (e.g. https://remsfal.example.com)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load REMSFAL_* values from a .env file")
	cmd.Flags().BoolVar(&verify, "verify", false, "Fetch the user profile with the new credentials before saving")
	flagAlias(cmd.Flags(), "url", "ur")
	flagAlias(cmd.Flags(), "env-file", "env")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current authentication configuration",
		Long:  "Display the active credentials (the token is masked).",
		Example: strings.TrimSpace(`
  remsfal auth status
  remsfal auth status --json
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			usingEnv := strings.TrimSpace(os.Getenv(config.EnvBaseURL)) != ""

			var creds config.Credentials
			var err error
			if flags.Profile != "" {
				creds, err = config.LoadProfile(flags.Profile)
			} else {
				creds, err = config.LoadCredentials()
			}
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return printOutput(cmd, map[string]any{
						"authenticated": false,
						"message":       "Not authenticated. Run 'remsfal auth login' to configure credentials.",
					}, func(out io.Writer) error {
						_, _ = fmt.Fprintln(out, "Not authenticated.")
						_, _ = fmt.Fprintln(out, "Run 'remsfal auth login' to configure credentials.")
						return nil
					})
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			profile := flags.Profile
			if profile == "" && !usingEnv {
				if current, err := config.CurrentProfile(); err == nil {
					profile = current
				}
			}
			source := "keychain"
			if usingEnv && flags.Profile == "" {
				source = "env"
			}

			payload := map[string]any{
				"authenticated": creds.Token != "",
				"base_url":      creds.BaseURL,
				"token":         maskToken(creds.Token),
				"source":        source,
			}
			if profile != "" {
				payload["profile"] = profile
			}
			if creds.PathStyle != "" {
				payload["path_style"] = creds.PathStyle
			}
			if creds.OpenAPI != "" {
				payload["openapi"] = creds.OpenAPI
			}

			return printOutput(cmd, payload, func(out io.Writer) error {
				if creds.Token == "" {
					_, _ = fmt.Fprintln(out, "No token configured")
				} else {
					_, _ = fmt.Fprintln(out, "Authenticated")
				}
				_, _ = fmt.Fprintf(out, "  Base URL: %s\n", creds.BaseURL)
				_, _ = fmt.Fprintf(out, "  Token: %s\n", maskToken(creds.Token))
				if profile != "" {
					_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
				}
				if creds.PathStyle != "" {
					_, _ = fmt.Fprintf(out, "  Path style: %s\n", creds.PathStyle)
				}
				if creds.OpenAPI != "" {
					_, _ = fmt.Fprintf(out, "  OpenAPI: %s\n", creds.OpenAPI)
				}
				_, _ = fmt.Fprintf(out, "  Source: %s\n", source)
				return nil
			})
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove credentials from keychain",
		Long:  "Delete the stored credentials of --profile, or of the current profile.",
		Example: strings.TrimSpace(`
  remsfal auth logout
  remsfal auth logout --profile staging
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}

			if _, err := config.LoadProfile(profile); errors.Is(err, config.ErrNotConfigured) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No credentials found.")
				return nil
			}

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %s removed successfully.\n", profile)
			return nil
		}),
	}
}

// maskToken masks a token for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
