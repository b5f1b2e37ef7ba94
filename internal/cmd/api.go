package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/iocontext"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

func newAPICmd() *cobra.Command {
	var method string
	var params []string
	var fields []string
	var rawFields []string
	var inputFile string
	var jsonBody string
	var includeHeaders bool

	cmd := &cobra.Command{
		Use:     "api <path-template>",
		Aliases: []string{"ap"},
		Short:   "Make raw API requests to any remsfal endpoint",
		Long: `Make raw API requests to any remsfal endpoint.

The path is a URL template relative to the base URL. Placeholders are
filled from -p key=value pairs; pairs that name no placeholder become query
parameters. The placeholder syntax is {name} by default and can be switched
to :name, or to both, with --path-style or the profile setting.

A placeholder without a value fails the call before anything is sent.`,
		Example: `  # GET with a path parameter and a query parameter
  remsfal api /api/v1/projects/{projectId}/properties -p projectId=8a0f... -p limit=10

  # Same call written with colon placeholders
  remsfal api /api/v1/projects/:projectId --path-style colon -p projectId=8a0f...

  # POST with fields
  remsfal api /api/v1/projects -X POST -f title="Harbor View"

  # PATCH with a JSON value
  remsfal api /api/v1/projects/{projectId}/apartments/{apartmentId} -X PATCH \
    -p projectId=... -p apartmentId=... -F livingSpace=72.5

  # Body from a JSON or YAML file, or stdin
  remsfal api /api/v1/projects -X POST -i project.yaml

  # Show status and response headers
  remsfal api /api/v1/user --include`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			template := args[0]

			method = strings.ToUpper(strings.TrimSpace(method))
			switch method {
			case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				return fmt.Errorf("invalid HTTP method %q: must be one of GET, POST, PUT, PATCH, DELETE", method)
			}
			if jsonBody != "" && inputFile != "" {
				return fmt.Errorf("cannot use both --body and --input flags")
			}
			if len(template) > validation.MaxURLLength {
				return fmt.Errorf("path template exceeds maximum length of %d characters", validation.MaxURLLength)
			}

			all, err := parseParams(params)
			if err != nil {
				return err
			}
			var input []byte
			if inputFile != "" {
				input, err = iocontext.ReadInput(cmdContext(cmd), inputFile)
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
			}
			body, err := buildRequestBody(fields, rawFields, input, jsonBody)
			if err != nil {
				return err
			}

			s, err := getSession(cmdContext(cmd))
			if err != nil {
				return err
			}

			pathParams, query := api.PartitionParamsStyle(template, all, s.style)
			style := s.style
			resp, err := s.client.Do(cmdContext(cmd), api.RequestConfig{
				Method:     method,
				URL:        template,
				Template:   template,
				Params:     query,
				Data:       body,
				PathParams: pathParams,
				PathStyle:  &style,
			})
			if err != nil {
				return err
			}

			if method != http.MethodGet {
				if done, err := printDryRun(cmd, s.recorder); done {
					return err
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, apiJSONPayload(resp, includeHeaders))
			}
			return writeRawResponse(iocontext.GetIO(cmd.Context()).Out, resp, includeHeaders)
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method (GET, POST, PUT, PATCH, DELETE)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Path or query parameter as key=value")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Request body field as key=value (string)")
	cmd.Flags().StringArrayVarP(&rawFields, "raw-field", "F", nil, "Request body field as key=value (JSON parsed)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Read request body (JSON or YAML) from file (use - for stdin)")
	cmd.Flags().StringVarP(&jsonBody, "body", "d", "", "Request body as inline JSON string")
	cmd.Flags().BoolVar(&includeHeaders, "include", false, "Include status and response headers in output")
	flagAlias(cmd.Flags(), "include", "inc")
	flagAlias(cmd.Flags(), "param", "path-param")

	return cmd
}

func writeRawResponse(out io.Writer, resp *api.Response, includeHeaders bool) error {
	if includeHeaders {
		_, _ = fmt.Fprintf(out, "HTTP %d\n", resp.Status)
		keys := make([]string, 0, len(resp.Header))
		for k := range resp.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range resp.Header[k] {
				_, _ = fmt.Fprintf(out, "%s: %s\n", k, v)
			}
		}
		if quota := resp.RateLimit.String(); quota != "" {
			_, _ = fmt.Fprintf(out, "# rate limit: %s\n", quota)
		}
		_, _ = fmt.Fprintln(out)
	}

	if len(resp.Body) == 0 {
		return nil
	}
	pretty := &bytes.Buffer{}
	if err := json.Indent(pretty, resp.Body, "", "  "); err == nil {
		_, err = fmt.Fprintln(out, pretty.String())
		return err
	}
	_, err := fmt.Fprintln(out, string(resp.Body))
	return err
}

func apiJSONPayload(resp *api.Response, includeHeaders bool) any {
	body := apiJSONBody(resp.Body)
	if !includeHeaders {
		return body
	}
	payload := map[string]any{
		"status":  resp.Status,
		"headers": resp.Header,
		"body":    body,
	}
	if meta := resp.RateLimit.Meta(); meta != nil {
		payload["rate_limit"] = meta
	}
	return payload
}

func apiJSONBody(respBody []byte) any {
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if !json.Valid(respBody) {
		return string(respBody)
	}
	return json.RawMessage(respBody)
}

// parseParams parses -p key=value pairs. A key given twice becomes a list,
// which repeats the query parameter.
func parseParams(pairs []string) (api.Params, error) {
	params := api.Params{}
	for _, pair := range pairs {
		key, value, err := parseField(pair)
		if err != nil {
			return nil, err
		}
		switch existing := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{existing, value}
		case []string:
			params[key] = append(existing, value)
		}
	}
	return params, nil
}

// buildRequestBody constructs the request body from --body, --input and the
// -f/-F fields, in that order of precedence (fields win).
func buildRequestBody(fields, rawFields []string, input []byte, jsonBody string) (any, error) {
	var base any
	switch {
	case jsonBody != "":
		if err := validation.ValidateJSONPayload([]byte(jsonBody)); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(jsonBody), &base); err != nil {
			return nil, fmt.Errorf("failed to parse --body JSON: %w", err)
		}
	case input != nil:
		if err := validation.ValidateJSONPayload(input); err != nil {
			return nil, err
		}
		decoded, err := decodeInput(input)
		if err != nil {
			return nil, err
		}
		base = decoded
	}

	if len(fields) == 0 && len(rawFields) == 0 {
		return base, nil
	}

	body, ok := base.(map[string]any)
	if base != nil && !ok {
		return nil, fmt.Errorf("fields can only be combined with a JSON object body")
	}
	if body == nil {
		body = make(map[string]any)
	}
	for _, field := range fields {
		key, value, err := parseField(field)
		if err != nil {
			return nil, err
		}
		body[key] = value
	}
	for _, field := range rawFields {
		key, value, err := parseRawField(field)
		if err != nil {
			return nil, err
		}
		body[key] = value
	}
	return body, nil
}

// decodeInput parses a request body as JSON, or else as YAML.
func decodeInput(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err == nil {
		return v, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse input as JSON or YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("failed to parse input: empty document")
	}
	return doc, nil
}

// parseField parses a key=value field where value is a string
func parseField(field string) (string, string, error) {
	key, value, ok := strings.Cut(field, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("invalid field format %q: must be key=value", field)
	}
	return key, value, nil
}

// parseRawField parses a key=value field where value is JSON
func parseRawField(field string) (string, any, error) {
	key, raw, ok := strings.Cut(field, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", nil, fmt.Errorf("invalid raw field format %q: must be key=value", field)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("invalid JSON in raw field %q: %w", key, err)
	}
	return key, value, nil
}

// styleOrDefault parses name, falling back to def when name is empty.
func styleOrDefault(name string, def urltemplate.Style) (urltemplate.Style, error) {
	if strings.TrimSpace(name) == "" {
		return def, nil
	}
	return urltemplate.ParseStyle(name)
}
