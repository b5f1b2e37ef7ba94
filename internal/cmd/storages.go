package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

func newStoragesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "storages",
		Aliases: []string{"storage", "sto"},
		Short:   "Manage storage rooms and garages of a building",
	}
	cmd.AddCommand(newStoragesListCmd())
	cmd.AddCommand(newStoragesGetCmd())
	cmd.AddCommand(newStoragesCreateCmd())
	return cmd
}

func newStoragesListCmd() *cobra.Command {
	var project, building string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the storages of a building",
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
			storages, err := s.client.Storages().List(cmdContext(cmd), projectID, buildingRef.ID)
			if err != nil {
				return err
			}
			if storages == nil {
				storages = []api.Storage{}
			}

			return printOutput(cmd, storages, func(out io.Writer) error {
				if len(storages) == 0 {
					_, _ = fmt.Fprintln(out, "No storages found")
					return nil
				}
				w := newTabWriter(out)
				_, _ = fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tUSABLE SPACE")
				for _, st := range storages {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.ID, st.Title, st.Location, formatArea(st.UsableSpace))
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

func newStoragesGetCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "get <storage>",
		Short: "Show a storage",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, err := parseResourceArg(args[0], "storage")
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
			storage, err := s.client.Storages().Get(cmdContext(cmd), projectID, ref.ID)
			if err != nil {
				return err
			}

			return printOutput(cmd, storage, func(out io.Writer) error {
				w := newTabWriter(out)
				_, _ = fmt.Fprintf(w, "ID:\t%s\n", storage.ID)
				_, _ = fmt.Fprintf(w, "Title:\t%s\n", storage.Title)
				if storage.Location != "" {
					_, _ = fmt.Fprintf(w, "Location:\t%s\n", storage.Location)
				}
				if storage.Description != "" {
					_, _ = fmt.Fprintf(w, "Description:\t%s\n", storage.Description)
				}
				_, _ = fmt.Fprintf(w, "Usable space:\t%s\n", formatArea(storage.UsableSpace))
				return w.Flush()
			})
		}),
	}

	addProjectFlag(cmd, &project)
	return cmd
}

func newStoragesCreateCmd() *cobra.Command {
	var project, building string
	var input api.StorageInput

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a storage in a building",
		Example: strings.TrimSpace(`
  remsfal storages create "Garage 3" --project "Harbor View" --building <building-id> --usable-space 18
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			input.Title = strings.TrimSpace(args[0])
			if err := validation.ValidateTitle(input.Title); err != nil {
				return err
			}
			if input.UsableSpace < 0 {
				return fmt.Errorf("--usable-space must be zero or positive")
			}
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
			storage, err := s.client.Storages().Create(cmdContext(cmd), projectID, buildingRef.ID, input)
			if err != nil {
				return err
			}
			if done, err := printDryRun(cmd, s.recorder); done {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, storage)
			}
			printAction(cmd, "Created", "storage", storage.ID, storage.Title)
			return nil
		}),
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&building, "building", "", "Building ID or URL (required)")
	cmd.Flags().StringVar(&input.Location, "location", "", "Location inside the building")
	cmd.Flags().StringVar(&input.Description, "description", "", "Description")
	cmd.Flags().Float64Var(&input.UsableSpace, "usable-space", 0, "Usable space in square meters")
	_ = cmd.MarkFlagRequired("building")
	flagAlias(cmd.Flags(), "building", "bld")
	flagAlias(cmd.Flags(), "description", "desc")
	return cmd
}
