package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
	"github.com/remsfal/remsfal-frontend-sub001/internal/resolve"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var apiErr *api.APIError
	var schemaErr *api.SchemaError
	var authErr *api.AuthError
	var missing *urltemplate.MissingParamError
	var unresolved *urltemplate.UnresolvedError
	var ambiguous *resolve.AmbiguousError

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No credentials configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: remsfal auth login --url <base-url> --token <token>\n")
		fmt.Fprintf(&msg, "  - Or export %s and %s\n", config.EnvBaseURL, config.EnvToken)

	case errors.As(err, &authErr):
		fmt.Fprintf(&msg, "Authentication failed: %s\n\n", authErr.Reason)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: remsfal auth login\n")
		msg.WriteString("  - Verify your token is valid\n")

	case errors.As(err, &missing):
		fmt.Fprintf(&msg, "Missing path parameter %q.\n\n", missing.Name)
		msg.WriteString("Suggestions:\n")
		fmt.Fprintf(&msg, "  - Pass it with -p %s=<value>\n", missing.Name)
		msg.WriteString("  - Run: remsfal resolve <template> --names to list the placeholders\n")

	case errors.As(err, &unresolved):
		fmt.Fprintf(&msg, "URL still contains placeholder syntax: %s\n\n", unresolved.Partial)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the template for unbalanced braces or stray colons\n")
		msg.WriteString("  - Pick the placeholder syntax with --path-style curly|colon|both\n")

	case errors.As(err, &schemaErr):
		fmt.Fprintf(&msg, "Response of %s %s does not match the OpenAPI document.\n\n", schemaErr.Method, schemaErr.URL)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - The server may run a different API version\n")
		msg.WriteString("  - Check the document passed with --openapi\n")
		fmt.Fprintf(&msg, "\nDetails: %v\n", schemaErr.Err)

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErr.Body)
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode, apiErr.Body))
		if quota := apiErr.RateLimit.String(); quota != "" {
			fmt.Fprintf(&msg, "\nRate limit: %s\n", quota)
		}
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "%q matches more than one item:\n", ambiguous.Query)
		for _, m := range ambiguous.Matches {
			fmt.Fprintf(&msg, "  - %s (%s)\n", m.Name, m.ID)
		}
		msg.WriteString("\nPass the ID instead of the name.\n")

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check if the remsfal server is running\n")
		msg.WriteString("  - Verify the URL: remsfal auth status\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the base URL spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	case strings.Contains(err.Error(), "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's certificate\n")
		msg.WriteString("  - Ensure you're using https:// correctly\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int, body string) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400:
		suggestions.WriteString("  - Check your request parameters\n")
		suggestions.WriteString("  - Use --debug to see the full request\n")
		if strings.Contains(strings.ToLower(body), "required") {
			suggestions.WriteString("  - A required field may be missing\n")
		}

	case 401:
		suggestions.WriteString("  - Your token may be invalid or expired\n")
		suggestions.WriteString("  - Run: remsfal auth login\n")

	case 403:
		suggestions.WriteString("  - You don't have permission for this action\n")
		suggestions.WriteString("  - Check your role in the project\n")

	case 404:
		suggestions.WriteString("  - The resource doesn't exist\n")
		suggestions.WriteString("  - Check the ID is correct\n")
		suggestions.WriteString("  - The resource may have been deleted\n")

	case 409:
		suggestions.WriteString("  - The resource changed in the meantime\n")
		suggestions.WriteString("  - Fetch it again and retry\n")

	case 422:
		suggestions.WriteString("  - Validation failed\n")
		suggestions.WriteString("  - Check your input values\n")

	case 429:
		suggestions.WriteString("  - Too many requests\n")
		suggestions.WriteString("  - Wait and retry in a few seconds\n")

	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
