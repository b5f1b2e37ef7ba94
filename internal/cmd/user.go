package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "user",
		Aliases: []string{"me", "whoami"},
		Short:   "Show the authenticated user",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}
			user, err := s.client.User().Get(cmdContext(cmd))
			if err != nil {
				return err
			}

			return printOutput(cmd, user, func(out io.Writer) error {
				w := newTabWriter(out)
				_, _ = fmt.Fprintf(w, "Name:\t%s\n", user.Name())
				_, _ = fmt.Fprintf(w, "Email:\t%s\n", user.Email)
				_, _ = fmt.Fprintf(w, "ID:\t%s\n", user.ID)
				if user.MobilePhoneNumber != "" {
					_, _ = fmt.Fprintf(w, "Mobile:\t%s\n", user.MobilePhoneNumber)
				}
				if user.BusinessPhoneNumber != "" {
					_, _ = fmt.Fprintf(w, "Business phone:\t%s\n", user.BusinessPhoneNumber)
				}
				if a := user.Address; a != nil {
					_, _ = fmt.Fprintf(w, "Address:\t%s, %s %s\n", a.Street, a.Zip, a.City)
				}
				if user.LastLoginDate != "" {
					_, _ = fmt.Fprintf(w, "Last login:\t%s\n", user.LastLoginDate)
				}
				return w.Flush()
			})
		}),
	}
}
