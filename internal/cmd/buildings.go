package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

func newBuildingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "buildings",
		Aliases: []string{"building", "bld"},
		Short:   "Manage the buildings on a property",
	}
	cmd.AddCommand(newBuildingsListCmd())
	cmd.AddCommand(newBuildingsGetCmd())
	cmd.AddCommand(newBuildingsCreateCmd())
	return cmd
}

func newBuildingsListCmd() *cobra.Command {
	var project, property string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the buildings on a property",
		Example: `  remsfal buildings list --project "Harbor View" --property 0b6a3f1d-1111-4c22-8d33-445566778899`,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			propertyRef, err := parseResourceArg(property, "property")
			if err != nil {
				return err
			}
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := projectFor(cmdContext(cmd), s, project, propertyRef)
			if err != nil {
				return err
			}
			buildings, err := s.client.Buildings().List(cmdContext(cmd), projectID, propertyRef.ID)
			if err != nil {
				return err
			}
			if buildings == nil {
				buildings = []api.Building{}
			}

			return printOutput(cmd, buildings, func(out io.Writer) error {
				if len(buildings) == 0 {
					_, _ = fmt.Fprintln(out, "No buildings found")
					return nil
				}
				w := newTabWriter(out)
				_, _ = fmt.Fprintln(w, "ID\tTITLE\tADDRESS\tLIVING SPACE")
				for _, b := range buildings {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Title, formatAddress(b.Address), formatArea(b.LivingSpace))
				}
				return w.Flush()
			})
		}),
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&property, "property", "", "Property ID or URL (required)")
	_ = cmd.MarkFlagRequired("property")
	flagAlias(cmd.Flags(), "property", "prop")
	return cmd
}

func newBuildingsGetCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "get <building>",
		Short: "Show a building",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, err := parseResourceArg(args[0], "building")
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
			building, err := s.client.Buildings().Get(cmdContext(cmd), projectID, ref.ID)
			if err != nil {
				return err
			}

			return printOutput(cmd, building, func(out io.Writer) error {
				w := newTabWriter(out)
				_, _ = fmt.Fprintf(w, "ID:\t%s\n", building.ID)
				_, _ = fmt.Fprintf(w, "Title:\t%s\n", building.Title)
				if building.Address != nil {
					_, _ = fmt.Fprintf(w, "Address:\t%s\n", formatAddress(building.Address))
				}
				if building.Description != "" {
					_, _ = fmt.Fprintf(w, "Description:\t%s\n", building.Description)
				}
				_, _ = fmt.Fprintf(w, "Living space:\t%s\n", formatArea(building.LivingSpace))
				_, _ = fmt.Fprintf(w, "Commercial space:\t%s\n", formatArea(building.CommercialSpace))
				_, _ = fmt.Fprintf(w, "Usable space:\t%s\n", formatArea(building.UsableSpace))
				_, _ = fmt.Fprintf(w, "Heating space:\t%s\n", formatArea(building.HeatingSpace))
				return w.Flush()
			})
		}),
	}

	addProjectFlag(cmd, &project)
	return cmd
}

func newBuildingsCreateCmd() *cobra.Command {
	var project, property string
	var input api.BuildingInput
	var address api.Address

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a building on a property",
		Example: strings.TrimSpace(`
  remsfal buildings create "House A" --project "Harbor View" --property 0b6a3f1d-1111-4c22-8d33-445566778899 \
    --street "Hafenstr. 1" --zip 10115 --city Berlin --country DE
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			input.Title = strings.TrimSpace(args[0])
			if err := validation.ValidateTitle(input.Title); err != nil {
				return err
			}
			propertyRef, err := parseResourceArg(property, "property")
			if err != nil {
				return err
			}
			if address != (api.Address{}) {
				address.CountryCode = strings.ToUpper(address.CountryCode)
				input.Address = &address
			}

			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := projectFor(cmdContext(cmd), s, project, propertyRef)
			if err != nil {
				return err
			}
			building, err := s.client.Buildings().Create(cmdContext(cmd), projectID, propertyRef.ID, input)
			if err != nil {
				return err
			}
			if done, err := printDryRun(cmd, s.recorder); done {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, building)
			}
			printAction(cmd, "Created", "building", building.ID, building.Title)
			return nil
		}),
	}

	addProjectFlag(cmd, &project)
	cmd.Flags().StringVar(&property, "property", "", "Property ID or URL (required)")
	cmd.Flags().StringVar(&input.Description, "description", "", "Description")
	cmd.Flags().StringVar(&address.Street, "street", "", "Street and house number")
	cmd.Flags().StringVar(&address.Zip, "zip", "", "Postal code")
	cmd.Flags().StringVar(&address.City, "city", "", "City")
	cmd.Flags().StringVar(&address.Province, "province", "", "Province or state")
	cmd.Flags().StringVar(&address.CountryCode, "country", "", "ISO country code")
	_ = cmd.MarkFlagRequired("property")
	flagAlias(cmd.Flags(), "property", "prop")
	flagAlias(cmd.Flags(), "description", "desc")

	return cmd
}

func formatAddress(a *api.Address) string {
	if a == nil {
		return "-"
	}
	var parts []string
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if city := strings.TrimSpace(a.Zip + " " + a.City); city != "" {
		parts = append(parts, city)
	}
	if a.CountryCode != "" {
		parts = append(parts, a.CountryCode)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
