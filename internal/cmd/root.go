package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
	"github.com/remsfal/remsfal-frontend-sub001/internal/debug"
	"github.com/remsfal/remsfal-frontend-sub001/internal/dryrun"
	"github.com/remsfal/remsfal-frontend-sub001/internal/filter"
	"github.com/remsfal/remsfal-frontend-sub001/internal/iocontext"
	"github.com/remsfal/remsfal-frontend-sub001/internal/outfmt"
	"github.com/remsfal/remsfal-frontend-sub001/internal/telemetry"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output         string
	JSON           bool
	JQ             string
	Template       string
	Compact        bool
	Debug          bool
	LogJSON        bool
	Quiet          bool
	Silent         bool
	Yes            bool
	DryRun         bool
	AllowPrivate   bool
	Timeout        time.Duration
	BaseURL        string
	Token          string
	Profile        string
	PathStyle      string
	OpenAPI        string
	IdempotencyKey string
	Lang           string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = defaultFlags()

// tracing is the tracer provider of the running Execute() call, or nil.
var tracing *telemetry.Provider

func defaultFlags() rootFlags {
	return rootFlags{
		Output:       defaultOutput(),
		AllowPrivate: parseBoolEnv("REMSFAL_ALLOW_PRIVATE"),
		Timeout:      api.DefaultTimeout,
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("REMSFAL_OUTPUT")); value != "" {
		return value
	}
	return "text"
}

func parseBoolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// loadDotEnv loads $XDG_CONFIG_HOME/remsfal/.env if the file exists.
// Variables already set in the environment are not overwritten, so explicit
// exports always take precedence.
func loadDotEnv() {
	dir := config.ConfigDir()
	if dir == "" {
		return
	}
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Runs before the flag reset so REMSFAL_OUTPUT and friends from the .env
	// file become defaults.
	loadDotEnv()

	flags = defaultFlags()
	tracing = nil
	defer shutdownTracing()
	defer flushToasts()

	root := newRootCmd()
	root.SetContext(ctx)
	root.SetArgs(args)

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd)) //nolint:errcheck
		}
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "remsfal",
		Short: "CLI for the remsfal facility management API",
		Long: strings.TrimSpace(`
remsfal talks to the remsfal REST API: projects, properties, buildings,
apartments and storages, plus raw typed calls through "remsfal api".

Credentials come from a saved profile ("remsfal auth login"), from
REMSFAL_BASE_URL / REMSFAL_TOKEN, or from --base-url / --token.
`),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // enhanceUnknownError adds did-you-mean hints
		PersistentPreRunE:  setupCommand,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|yaml (env REMSFAL_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.JQ, "jq", "q", "", "JQ expression to filter structured output")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render structured output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.LogJSON, "log-json", false, "Write log records as JSON")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output and notifications")
	pf.BoolVar(&flags.Silent, "silent", false, "Suppress non-error output to stderr")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without executing")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", flags.AllowPrivate, "Allow private/localhost URLs (unsafe; env REMSFAL_ALLOW_PRIVATE)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "API base URL (overrides profile and env)")
	pf.StringVar(&flags.Token, "token", "", "Bearer token (overrides profile and env)")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile to use (env REMSFAL_PROFILE)")
	pf.StringVar(&flags.PathStyle, "path-style", "", "Placeholder syntax for raw calls: curly|colon|both (env REMSFAL_PATH_STYLE)")
	pf.StringVar(&flags.OpenAPI, "openapi", "", "OpenAPI document used to check responses (env REMSFAL_OPENAPI)")
	pf.StringVar(&flags.IdempotencyKey, "idempotency-key", "", "Idempotency key for write requests (use 'auto' for per-request keys)")
	pf.StringVar(&flags.Lang, "lang", "", "Language of notifications: en|de (env REMSFAL_LANG)")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "jq", "query")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "template", "tpl")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "idempotency-key", "idem")
	flagAlias(pf, "timeout", "to")

	root.AddCommand(newAPICmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newAuthCmd())
	root.AddCommand(newProfilesCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newProjectsCmd())
	root.AddCommand(newPropertiesCmd())
	root.AddCommand(newBuildingsCmd())
	root.AddCommand(newApartmentsCmd())
	root.AddCommand(newStoragesCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// setupCommand runs before every command: it validates the global flags and
// stores their effect in the command context.
func setupCommand(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if flags.JSON {
		if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
			return fmt.Errorf("--json conflicts with --output %s", flags.Output)
		}
		flags.Output = "json"
	}
	if flags.JQ != "" || flags.Template != "" {
		mode, _ := outfmt.Parse(flags.Output)
		if mode == outfmt.Text {
			if flagOrAliasChanged(cmd, "output") {
				return fmt.Errorf("--jq/--template require --output json, jsonl or yaml (or --json)")
			}
			flags.Output = "json"
		}
	}

	mode, err := outfmt.Parse(flags.Output)
	if err != nil {
		return err
	}
	ctx = outfmt.WithMode(ctx, mode)
	ctx = outfmt.WithCompact(ctx, flags.Compact)

	if flags.PathStyle != "" {
		if _, err := urltemplate.ParseStyle(flags.PathStyle); err != nil {
			return err
		}
	}

	ioStreams := iocontext.DefaultIO()
	if flags.Silent || flags.Quiet {
		ioStreams.ErrOut = io.Discard
	}
	if flags.Quiet && mode == outfmt.Text {
		ioStreams.Out = io.Discard
	}
	ctx = iocontext.WithIO(ctx, ioStreams)
	cmd.SetOut(ioStreams.Out)
	cmd.SetErr(ioStreams.ErrOut)

	validation.SetAllowPrivate(flags.AllowPrivate)
	if flags.AllowPrivate && flagOrAliasChanged(cmd, "allow-private") && !flags.Silent && !flags.Quiet {
		_, _ = fmt.Fprintln(ioStreams.ErrOut, "Warning: allowing private/localhost URLs (use only with trusted targets).") //nolint:errcheck
	}

	debug.SetupLogger(debug.LoggerOptions{Debug: flags.Debug, JSON: flags.LogJSON, Out: ioStreams.ErrOut})
	ctx = debug.WithDebug(ctx, flags.Debug)
	ctx = dryrun.WithDryRun(ctx, flags.DryRun)

	if flags.JQ != "" {
		if _, err := filter.Compile(flags.JQ); err != nil {
			return err
		}
		ctx = outfmt.WithQuery(ctx, flags.JQ)
	}
	if flags.Template != "" {
		tmpl, err := loadTemplate(flags.Template)
		if err != nil {
			return err
		}
		ctx = outfmt.WithTemplate(ctx, tmpl)
	}

	provider, err := telemetry.NewProvider(ctx, telemetry.ConfigFromEnv("remsfal-cli", version))
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	tracing = provider

	cmd.SetContext(ctx)
	return nil
}

func shutdownTracing() {
	if tracing == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = tracing.Shutdown(ctx)
	tracing = nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			for _, c := range root.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
		return msg
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown == "" {
			return msg
		}
		cmd := targetCmd
		if cmd == nil {
			cmd = root
		}
		seen := make(map[string]bool)
		var names []string
		collect := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Hidden {
					return
				}
				for _, n := range []string{"--" + f.Name, shorthand(f)} {
					if n != "" && !seen[n] {
						seen[n] = true
						names = append(names, n)
					}
				}
			})
		}
		collect(cmd.Flags())
		collect(cmd.InheritedFlags())

		helpCmd := strings.TrimSpace(cmd.CommandPath()) + " --help"
		if suggestion := suggestFlag(unknown, names); suggestion != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
		}
		return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
	}

	return msg
}

func shorthand(f *pflag.Flag) string {
	if f.Shorthand == "" {
		return ""
	}
	return "-" + f.Shorthand
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo" or "-x") from an error message.
func extractFlag(s string) string {
	if idx := strings.Index(s, "--"); idx >= 0 {
		rest := s[idx:]
		if end := strings.IndexByte(rest, ' '); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimRight(rest, ".,;:!?\"'")
	}
	// "unknown shorthand flag: 'a' in -a"
	idx := strings.LastIndex(s, " -")
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(s[idx+1:])
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimRight(rest, ".,;:!?\"'")
	if len(rest) > 1 && rest[0] == '-' {
		return rest
	}
	return ""
}

func loadTemplate(value string) (string, error) {
	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
