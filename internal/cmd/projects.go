package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "pr"},
		Short:   "Manage projects",
		Long: `Manage facility-management projects.

Wherever a project is expected you can pass its ID, a remsfal URL or its
name; names are matched fuzzily against your project list.`,
	}
	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsGetCmd())
	cmd.AddCommand(newProjectsCreateCmd())
	cmd.AddCommand(newProjectsRenameCmd())
	cmd.AddCommand(newProjectsDeleteCmd())
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	var limit string
	var offset int
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your projects",
		Example: strings.TrimSpace(`
  remsfal projects list
  remsfal projects list --limit 20 --offset 40
  remsfal projects list --all --json
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if offset < 0 {
				return fmt.Errorf("--offset must be zero or positive")
			}
			pageSize := 0
			if limit != "" {
				n, err := validation.ParsePageSize(limit)
				if err != nil {
					return err
				}
				pageSize = n
			}

			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}

			var list *api.ProjectList
			if all {
				items, err := s.client.Projects().ListAll(cmdContext(cmd), pageSize)
				if err != nil {
					return err
				}
				list = &api.ProjectList{Projects: items, Size: len(items), Total: len(items)}
			} else {
				list, err = s.client.Projects().List(cmdContext(cmd), pageSize, offset)
				if err != nil {
					return err
				}
			}
			if list.Projects == nil {
				list.Projects = []api.ProjectItem{}
			}

			return printOutput(cmd, list, func(out io.Writer) error {
				if len(list.Projects) == 0 {
					_, _ = fmt.Fprintln(out, "No projects found")
					return nil
				}
				w := newTabWriter(out)
				_, _ = fmt.Fprintln(w, "ID\tNAME\tROLE")
				for _, p := range list.Projects {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.MemberRole)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				if !all && list.Total > len(list.Projects) {
					_, _ = fmt.Fprintf(out, "\nShowing %d-%d of %d\n", list.First+1, list.First+len(list.Projects), list.Total)
				}
				return nil
			})
		}),
	}

	cmd.Flags().StringVarP(&limit, "limit", "l", "", fmt.Sprintf("Page size (1-%d)", validation.MaxPageSize))
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of projects to skip")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Fetch every page")
	flagAlias(cmd.Flags(), "limit", "lim")
	flagAlias(cmd.Flags(), "offset", "off")

	return cmd
}

func newProjectsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <project>",
		Aliases: []string{"show"},
		Short:   "Show a project and its members",
		Example: strings.TrimSpace(`
  remsfal projects get 8a0f1f2e-4b7c-4d6e-9f10-112233445566
  remsfal projects get "Harbor View"
  remsfal projects get https://remsfal.example.com/projects/8a0f1f2e-4b7c-4d6e-9f10-112233445566
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(cmdContext(cmd), s, args[0])
			if err != nil {
				return err
			}
			project, err := s.client.Projects().Get(cmdContext(cmd), projectID)
			if err != nil {
				return err
			}

			return printOutput(cmd, project, func(out io.Writer) error {
				_, _ = fmt.Fprintf(out, "%s (%s)\n", project.Title, project.ID)
				if len(project.Members) == 0 {
					return nil
				}
				_, _ = fmt.Fprintln(out)
				w := newTabWriter(out)
				_, _ = fmt.Fprintln(w, "MEMBER\tEMAIL\tROLE")
				for _, m := range project.Members {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Email, m.Role)
				}
				return w.Flush()
			})
		}),
	}
}

func newProjectsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "create <title>",
		Aliases: []string{"new"},
		Short:   "Create a project",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if err := validation.ValidateTitle(title); err != nil {
				return err
			}
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			project, err := s.client.Projects().Create(cmdContext(cmd), title)
			if err != nil {
				return err
			}
			if done, err := printDryRun(cmd, s.recorder); done {
				return err
			}
			invalidateProjectCache(s)

			if isJSON(cmd) {
				return printJSON(cmd, project)
			}
			printAction(cmd, "Created", "project", project.ID, project.Title)
			return nil
		}),
	}
}

func newProjectsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project> <title>",
		Short: "Change the title of a project",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[1])
			if err := validation.ValidateTitle(title); err != nil {
				return err
			}
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(cmdContext(cmd), s, args[0])
			if err != nil {
				return err
			}
			project, err := s.client.Projects().Update(cmdContext(cmd), projectID, title)
			if err != nil {
				return err
			}
			if done, err := printDryRun(cmd, s.recorder); done {
				return err
			}
			invalidateProjectCache(s)

			if isJSON(cmd) {
				return printJSON(cmd, project)
			}
			printAction(cmd, "Renamed", "project", projectID, title)
			return nil
		}),
	}
}

func newProjectsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project and everything in it",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(cmdContext(cmd), s, args[0])
			if err != nil {
				return err
			}

			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete project %s and all of its properties? [y/N]: ", projectID),
				CancelMessage: "Aborted.",
			})
			if err != nil || !ok {
				return err
			}

			if err := s.client.Projects().Delete(cmdContext(cmd), projectID); err != nil {
				return err
			}
			if done, err := printDryRun(cmd, s.recorder); done {
				return err
			}
			invalidateProjectCache(s)

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"id": projectID, "deleted": true})
			}
			printAction(cmd, "Deleted", "project", projectID, "")
			return nil
		}),
	}
}
