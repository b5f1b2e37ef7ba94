package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/dryrun"
	"github.com/remsfal/remsfal-frontend-sub001/internal/iocontext"
	"github.com/remsfal/remsfal-frontend-sub001/internal/outfmt"
)

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

// isJSON reports whether the command writes structured output.
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsStructured(cmd.Context())
}

// printOutput writes v in the structured output mode. In text mode it calls
// text with stdout instead.
func printOutput(cmd *cobra.Command, v any, text func(out io.Writer) error) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	formatter := outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
	if written, err := formatter.Output(v); written {
		return err
	}
	return text(ioStreams.Out)
}

// printJSON outputs data as JSON with optional query/template filtering,
// whatever the output mode.
func printJSON(cmd *cobra.Command, v any) error {
	ctx := cmd.Context()
	ioStreams := iocontext.GetIO(ctx)
	filtered, err := outfmt.ApplyQuery(ctx, v, outfmt.GetQuery(ctx))
	if err != nil {
		return err
	}
	if tmpl := outfmt.GetTemplate(ctx); tmpl != "" {
		return outfmt.WriteTemplate(ioStreams.Out, filtered, tmpl)
	}
	return outfmt.WriteJSON(ioStreams.Out, filtered, outfmt.IsCompact(ctx))
}

func printJSONErr(cmd *cobra.Command, v any) error {
	return outfmt.WriteJSON(cmd.ErrOrStderr(), v, outfmt.IsCompact(cmd.Context()))
}

// printAction reports a completed write in text mode.
func printAction(cmd *cobra.Command, action, resource, id, name string) {
	if flags.Quiet || isJSON(cmd) {
		return
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	message := fmt.Sprintf("%s %s", action, resource)
	if id != "" {
		message = fmt.Sprintf("%s %s", message, id)
	}
	if name != "" {
		message = fmt.Sprintf("%s: %s", message, name)
	}
	_, _ = fmt.Fprintln(ioStreams.Out, message)
}

// printDryRun writes the requests rec held back. It reports false when
// dry-run mode is off.
func printDryRun(cmd *cobra.Command, rec *dryrun.Recorder) (bool, error) {
	if rec == nil || !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	previews := rec.Previews()
	if isJSON(cmd) {
		return true, printJSON(cmd, map[string]any{
			"dry_run":  true,
			"requests": previews,
		})
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	if len(previews) == 0 {
		_, _ = fmt.Fprintln(ioStreams.Out, "[DRY-RUN] No write requests")
		return true, nil
	}
	for i := range previews {
		if i > 0 {
			_, _ = fmt.Fprintln(ioStreams.Out)
		}
		previews[i].Write(ioStreams.Out)
	}
	return true, nil
}

type confirmOptions struct {
	Prompt        string
	CancelMessage string
}

// confirmAction asks for a y/N answer on stdin unless --yes or --dry-run is set.
func confirmAction(cmd *cobra.Command, opts confirmOptions) (bool, error) {
	if flags.Yes || dryrun.IsEnabled(cmd.Context()) {
		return true, nil
	}
	if isJSON(cmd) {
		return false, fmt.Errorf("--yes is required when using structured output")
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	out := ioStreams.ErrOut
	if opts.Prompt != "" {
		_, _ = fmt.Fprint(out, opts.Prompt)
	}

	reader := bufio.NewReader(ioStreams.In)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(out, opts.CancelMessage)
		}
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true, nil
	default:
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(out, opts.CancelMessage)
		}
		return false, nil
	}
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed.  This lets aliases satisfy Cobra's
// MarkFlagRequired check transparently.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue also forwards pflag.SliceValue when the underlying
// Value supports it.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

// flagAlias registers a hidden alias sharing the value of flag name.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	// The alias is never required on its own.
	ann := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		ann[k] = v
	}
	a.Annotations = ann
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}

	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

// toastStops holds the stop functions of the toast renderers attached by
// the clients of the current Execute() call.
var (
	toastMu    sync.Mutex
	toastStops []func()
)

func registerToastStop(stop func()) {
	toastMu.Lock()
	defer toastMu.Unlock()
	toastStops = append(toastStops, stop)
}

// flushToasts renders every pending notification and detaches the renderers.
func flushToasts() {
	toastMu.Lock()
	stops := toastStops
	toastStops = nil
	toastMu.Unlock()
	for _, stop := range stops {
		stop()
	}
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command body: errors are printed once (as JSON in structured
// mode, with suggestions otherwise) after pending notifications.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		flushToasts()
		if err != nil {
			if isJSON(cmd) {
				if structured := api.StructuredErrorFromError(err); structured != nil {
					_ = printJSONErr(cmd, structured)
				}
			} else {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
			}
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}
