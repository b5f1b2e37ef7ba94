package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
)

type profileInfo struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url,omitempty"`
	Current bool   `json:"current"`
}

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile", "pf"},
		Short:   "List and switch credential profiles",
	}
	cmd.AddCommand(newProfilesListCmd())
	cmd.AddCommand(newProfilesUseCmd())
	return cmd
}

func newProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved profiles",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			names, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			profiles := make([]profileInfo, 0, len(names))
			for _, name := range names {
				info := profileInfo{Name: name, Current: name == current}
				if creds, err := config.LoadProfile(name); err == nil {
					info.BaseURL = creds.BaseURL
				}
				profiles = append(profiles, info)
			}

			return printOutput(cmd, profiles, func(out io.Writer) error {
				if len(profiles) == 0 {
					_, _ = fmt.Fprintln(out, "No profiles saved. Run 'remsfal auth login' to create one.")
					return nil
				}
				w := newTabWriter(out)
				_, _ = fmt.Fprintln(w, "\tNAME\tBASE URL")
				for _, p := range profiles {
					marker := ""
					if p.Current {
						marker = "*"
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", marker, p.Name, p.BaseURL)
				}
				return w.Flush()
			})
		}),
	}
}

func newProfilesUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a saved profile the current one",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := config.LoadProfile(name); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return fmt.Errorf("profile %q not found; run 'remsfal profiles list'", name)
				}
				return err
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			printAction(cmd, "Switched to", "profile", name, "")
			return nil
		}),
	}
}
