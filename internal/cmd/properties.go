package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

func newPropertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"property", "prop"},
		Short:   "Manage the properties of a project",
	}
	cmd.AddCommand(newPropertiesListCmd())
	cmd.AddCommand(newPropertiesGetCmd())
	cmd.AddCommand(newPropertiesCreateCmd())
	return cmd
}

func newPropertiesListCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the properties of a project",
		Example: `  remsfal properties list --project "Harbor View"`,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := projectFor(cmdContext(cmd), s, project)
			if err != nil {
				return err
			}
			properties, err := s.client.Properties().List(cmdContext(cmd), projectID)
			if err != nil {
				return err
			}
			if properties == nil {
				properties = []api.Property{}
			}

			return printOutput(cmd, properties, func(out io.Writer) error {
				if len(properties) == 0 {
					_, _ = fmt.Fprintln(out, "No properties found")
					return nil
				}
				w := newTabWriter(out)
				_, _ = fmt.Fprintln(w, "ID\tTITLE\tPLOT AREA")
				for _, p := range properties {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Title, formatArea(float64(p.PlotArea)))
				}
				return w.Flush()
			})
		}),
	}

	addProjectFlag(cmd, &project)
	return cmd
}

func newPropertiesGetCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "get <property>",
		Short: "Show a property",
		Long:  "Show a property. The property may be given as an ID (with --project) or as a remsfal URL.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, err := parseResourceArg(args[0], "property")
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
			property, err := s.client.Properties().Get(cmdContext(cmd), projectID, ref.ID)
			if err != nil {
				return err
			}

			return printOutput(cmd, property, func(out io.Writer) error {
				w := newTabWriter(out)
				_, _ = fmt.Fprintf(w, "ID:\t%s\n", property.ID)
				_, _ = fmt.Fprintf(w, "Title:\t%s\n", property.Title)
				if property.Description != "" {
					_, _ = fmt.Fprintf(w, "Description:\t%s\n", property.Description)
				}
				if property.LandRegistry != "" {
					_, _ = fmt.Fprintf(w, "Land registry:\t%s\n", property.LandRegistry)
				}
				if property.CadastralDistrict != "" {
					_, _ = fmt.Fprintf(w, "Cadastral district:\t%s\n", property.CadastralDistrict)
				}
				if property.Plot != 0 {
					_, _ = fmt.Fprintf(w, "Plot:\t%d\n", property.Plot)
				}
				if property.PlotArea != 0 {
					_, _ = fmt.Fprintf(w, "Plot area:\t%s\n", formatArea(float64(property.PlotArea)))
				}
				return w.Flush()
			})
		}),
	}

	addProjectFlag(cmd, &project)
	return cmd
}

func newPropertiesCreateCmd() *cobra.Command {
	var project string
	var input api.PropertyInput

	cmd := &cobra.Command{
		Use:     "create <title>",
		Short:   "Create a property",
		Example: `  remsfal properties create "North Plot" --project "Harbor View" --plot-area 1200`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			input.Title = strings.TrimSpace(args[0])
			if err := validation.ValidateTitle(input.Title); err != nil {
				return err
			}
			if input.PlotArea < 0 {
				return fmt.Errorf("--plot-area must be zero or positive")
			}
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := projectFor(cmdContext(cmd), s, project)
			if err != nil {
				return err
			}
			property, err := s.client.Properties().Create(cmdContext(cmd), projectID, input)
			if err != nil {
				return err
			}
			if done, err := printDryRun(cmd, s.recorder); done {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, property)
			}
			printAction(cmd, "Created", "property", property.ID, property.Title)
			return nil
		}),
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&input.Description, "description", "", "Description")
	cmd.Flags().IntVar(&input.PlotArea, "plot-area", 0, "Plot area in square meters")
	flagAlias(cmd.Flags(), "description", "desc")

	return cmd
}

// addProjectFlag registers the --project flag shared by nested resources.
func addProjectFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "project", "P", "", "Project ID, URL or name")
	flagAlias(cmd.Flags(), "project", "proj")
}

// formatArea prints an area in square meters, or "-" when unknown.
func formatArea(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%g m²", v)
}
