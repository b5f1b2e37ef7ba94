package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
)

type resolveResult struct {
	Template string            `json:"template"`
	Style    urltemplate.Style `json:"style"`
	URL      string            `json:"url,omitempty"`
	Names    []string          `json:"names,omitempty"`
}

func newResolveCmd() *cobra.Command {
	var params []string
	var style string
	var strict bool
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "resolve <template>",
		Short: "Fill the placeholders of a URL template without sending a request",
		Long: `Fill the placeholders of a URL template without sending a request.

Values are percent-encoded. A placeholder without a value is an error, as is
placeholder syntax left in the result. With --strict the result must not
contain placeholder syntax of any style, even one the selected style ignores.`,
		Example: `  remsfal resolve '/projects/{projectId}/units/{unitId}' -p projectId=p1 -p unitId=u9
  remsfal resolve '/projects/:projectId' --style colon -p projectId='a b'
  remsfal resolve '/projects/{projectId}/:unitId' --style both --names`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			template := args[0]

			selected, err := styleOrDefault(style, urltemplate.Curly)
			if err != nil {
				return err
			}
			if style == "" {
				if selected, err = styleOrDefault(defaultPathStyle(), urltemplate.Curly); err != nil {
					return err
				}
			}

			result := resolveResult{Template: template, Style: selected}
			if namesOnly {
				result.Names = urltemplate.Names(template, selected)
				return printOutput(cmd, result, func(out io.Writer) error {
					for _, name := range result.Names {
						_, _ = fmt.Fprintln(out, name)
					}
					return nil
				})
			}

			values, err := parseParams(params)
			if err != nil {
				return err
			}
			resolver := urltemplate.Resolve
			if strict {
				resolver = urltemplate.ResolveStrict
			}
			resolved, err := resolver(template, values, selected)
			if err != nil {
				return err
			}
			result.URL = resolved

			return printOutput(cmd, result, func(out io.Writer) error {
				_, err := fmt.Fprintln(out, resolved)
				return err
			})
		}),
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Placeholder value as key=value")
	cmd.Flags().StringVar(&style, "style", "", "Placeholder syntax: curly|colon|both (default: --path-style, then curly)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject leftover placeholder syntax of any style")
	cmd.Flags().BoolVar(&namesOnly, "names", false, "List the placeholder names instead of resolving")

	return cmd
}

// defaultPathStyle is the style from --path-style or the environment. It
// never touches the stored profile so resolve works offline.
func defaultPathStyle() string {
	if flags.PathStyle != "" {
		return flags.PathStyle
	}
	return strings.TrimSpace(os.Getenv(config.EnvPathStyle))
}
