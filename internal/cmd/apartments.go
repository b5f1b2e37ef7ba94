package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/iocontext"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

func newApartmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apartments",
		Aliases: []string{"apartment", "apt"},
		Short:   "Manage the apartments of a building",
	}
	cmd.AddCommand(newApartmentsListCmd())
	cmd.AddCommand(newApartmentsGetCmd())
	cmd.AddCommand(newApartmentsUpdateCmd())
	cmd.AddCommand(newApartmentsDeleteCmd())
	return cmd
}

func newApartmentsListCmd() *cobra.Command {
	var project, building string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the apartments of a building",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			buildingRef, err := parseResourceArg(building, "building")
			if err != nil {
				return err
			}
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := projectFor(cmdContext(cmd), s, project, buildingRef)
			if err != nil {
				return err
			}
			apartments, err := s.client.Apartments().List(cmdContext(cmd), projectID, buildingRef.ID)
			if err != nil {
				return err
			}
			if apartments == nil {
				apartments = []api.Apartment{}
			}

			return printOutput(cmd, apartments, func(out io.Writer) error {
				if len(apartments) == 0 {
					_, _ = fmt.Fprintln(out, "No apartments found")
					return nil
				}
				w := newTabWriter(out)
				_, _ = fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tLIVING SPACE")
				for _, a := range apartments {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Title, a.Location, formatArea(a.LivingSpace))
				}
				return w.Flush()
			})
		}),
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&building, "building", "", "Building ID or URL (required)")
	_ = cmd.MarkFlagRequired("building")
	flagAlias(cmd.Flags(), "building", "bld")
	return cmd
}

func newApartmentsGetCmd() *cobra.Command {
	var project string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "get <apartment>...",
		Short: "Show one or more apartments",
		Example: strings.TrimSpace(`
  remsfal apartments get c3d2e1f0-2222-4a33-9b44-556677889900 --project "Harbor View"
  remsfal apartments get https://remsfal.example.com/projects/<project>/apartments/<apartment>
  remsfal apartments get <id1> <id2> <id3> --project "Harbor View" --json
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			refs, err := parseResourceArgs(args, "apartment")
			if err != nil {
				return err
			}
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := projectFor(cmdContext(cmd), s, project, refs...)
			if err != nil {
				return err
			}

			if len(refs) == 1 {
				apartment, err := s.client.Apartments().Get(cmdContext(cmd), projectID, refs[0].ID)
				if err != nil {
					return err
				}
				return printOutput(cmd, apartment, func(out io.Writer) error {
					return writeApartment(out, apartment)
				})
			}

			results := runBulkOperation(cmdContext(cmd), refIDs(refs), concurrency, nil,
				func(ctx context.Context, id string) (*api.Apartment, error) {
					return s.client.Apartments().Get(ctx, projectID, id)
				})
			return printBulkResults(cmd, "Fetched", results, func(out io.Writer) error {
				for i, r := range results {
					if i > 0 {
						_, _ = fmt.Fprintln(out)
					}
					if !r.Success {
						_, _ = fmt.Fprintf(out, "%s: %s\n", r.ID, r.Error)
						continue
					}
					if err := writeApartment(out, r.Data.(*api.Apartment)); err != nil {
						return err
					}
				}
				return nil
			})
		}),
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().IntVar(&concurrency, "concurrency", DefaultConcurrency, "Maximum parallel requests")
	return cmd
}

func newApartmentsUpdateCmd() *cobra.Command {
	var project string
	var patch api.Apartment

	cmd := &cobra.Command{
		Use:   "update <apartment>",
		Short: "Change fields of an apartment",
		Example: strings.TrimSpace(`
  remsfal apartments update c3d2e1f0-2222-4a33-9b44-556677889900 --project "Harbor View" --living-space 72.5
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if patch == (api.Apartment{}) {
				return fmt.Errorf("at least one field to update is required")
			}
			if cmd.Flags().Changed("title") {
				patch.Title = strings.TrimSpace(patch.Title)
				if err := validation.ValidateTitle(patch.Title); err != nil {
					return err
				}
			}
			for name, v := range map[string]float64{
				"living-space":  patch.LivingSpace,
				"usable-space":  patch.UsableSpace,
				"heating-space": patch.HeatingSpace,
			} {
				if v < 0 {
					return fmt.Errorf("--%s must be zero or positive", name)
				}
			}

			ref, err := parseResourceArg(args[0], "apartment")
			if err != nil {
				return err
			}
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := projectFor(cmdContext(cmd), s, project, ref)
			if err != nil {
				return err
			}
			apartment, err := s.client.Apartments().Update(cmdContext(cmd), projectID, ref.ID, patch)
			if err != nil {
				return err
			}
			if done, err := printDryRun(cmd, s.recorder); done {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, apartment)
			}
			printAction(cmd, "Updated", "apartment", ref.ID, apartment.Title)
			return nil
		}),
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&patch.Title, "title", "", "New title")
	cmd.Flags().StringVar(&patch.Location, "location", "", "Location inside the building, e.g. floor")
	cmd.Flags().StringVar(&patch.Description, "description", "", "Description")
	cmd.Flags().Float64Var(&patch.LivingSpace, "living-space", 0, "Living space in square meters")
	cmd.Flags().Float64Var(&patch.UsableSpace, "usable-space", 0, "Usable space in square meters")
	cmd.Flags().Float64Var(&patch.HeatingSpace, "heating-space", 0, "Heated space in square meters")
	flagAlias(cmd.Flags(), "description", "desc")
	return cmd
}

func newApartmentsDeleteCmd() *cobra.Command {
	var project string
	var concurrency int

	cmd := &cobra.Command{
		Use:     "delete <apartment>...",
		Aliases: []string{"rm"},
		Short:   "Delete one or more apartments",
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			refs, err := parseResourceArgs(args, "apartment")
			if err != nil {
				return err
			}
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := projectFor(cmdContext(cmd), s, project, refs...)
			if err != nil {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete %d apartment(s) from project %s? [y/N]: ", len(refs), projectID),
				CancelMessage: "Aborted.",
			})
			if err != nil || !ok {
				return err
			}

			var progress io.Writer
			if len(refs) > 1 && !isJSON(cmd) {
				progress = iocontext.GetIO(cmd.Context()).ErrOut
			}
			results := runBulkOperation(cmdContext(cmd), refIDs(refs), concurrency, progress,
				func(ctx context.Context, id string) (any, error) {
					return nil, s.client.Apartments().Delete(ctx, projectID, id)
				})
			if done, err := printDryRun(cmd, s.recorder); done {
				return err
			}

			return printBulkResults(cmd, "Deleted", results, func(out io.Writer) error {
				for _, r := range results {
					if r.Success {
						_, _ = fmt.Fprintf(out, "Deleted apartment %s\n", r.ID)
					} else {
						_, _ = fmt.Fprintf(out, "Failed to delete apartment %s: %s\n", r.ID, r.Error)
					}
				}
				return nil
			})
		}),
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().IntVar(&concurrency, "concurrency", DefaultConcurrency, "Maximum parallel requests")
	return cmd
}

func writeApartment(out io.Writer, a *api.Apartment) error {
	w := newTabWriter(out)
	_, _ = fmt.Fprintf(w, "ID:\t%s\n", a.ID)
	_, _ = fmt.Fprintf(w, "Title:\t%s\n", a.Title)
	if a.Location != "" {
		_, _ = fmt.Fprintf(w, "Location:\t%s\n", a.Location)
	}
	if a.Description != "" {
		_, _ = fmt.Fprintf(w, "Description:\t%s\n", a.Description)
	}
	_, _ = fmt.Fprintf(w, "Living space:\t%s\n", formatArea(a.LivingSpace))
	_, _ = fmt.Fprintf(w, "Usable space:\t%s\n", formatArea(a.UsableSpace))
	_, _ = fmt.Fprintf(w, "Heating space:\t%s\n", formatArea(a.HeatingSpace))
	return w.Flush()
}

func refIDs(refs []resourceRef) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

// printBulkResults writes the results of a bulk operation. The command
// fails with the first error when any item failed, after the output.
func printBulkResults(cmd *cobra.Command, verb string, results []BulkResult, text func(out io.Writer) error) error {
	success, failure := countResults(results)
	payload := map[string]any{
		"results":   results,
		"succeeded": success,
		"failed":    failure,
	}
	if err := printOutput(cmd, payload, text); err != nil {
		return err
	}
	if failure == 0 {
		return nil
	}
	return fmt.Errorf("%s %d of %d items; first failure: %w", strings.ToLower(verb), success, len(results), firstBulkError(results))
}
