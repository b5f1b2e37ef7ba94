package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/remsfal/remsfal-frontend-sub001/internal/cache"
	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
	"github.com/remsfal/remsfal-frontend-sub001/internal/resolve"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urlparse"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

// resourceRef identifies a resource given on the command line. ProjectID is
// only known when the argument was a URL.
type resourceRef struct {
	ProjectID string
	ID        string
}

// parseResourceArg accepts a resource ID or a remsfal URL pointing at a
// resource of the given kind ("apartment", "building", ...).
func parseResourceArg(arg, kind string) (resourceRef, error) {
	arg = strings.TrimSpace(arg)
	if urlparse.IsURL(arg) {
		parsed, err := urlparse.Parse(arg)
		if err != nil {
			return resourceRef{}, err
		}
		if parsed.ResourceType != kind || !parsed.HasResourceID() {
			return resourceRef{}, fmt.Errorf("URL does not point to a %s: %s", kind, arg)
		}
		return resourceRef{ProjectID: parsed.ProjectID, ID: parsed.ResourceID}, nil
	}
	if err := validation.ValidateID(arg, kind+" ID"); err != nil {
		return resourceRef{}, err
	}
	return resourceRef{ID: arg}, nil
}

func parseResourceArgs(args []string, kind string) ([]resourceRef, error) {
	refs := make([]resourceRef, 0, len(args))
	for _, arg := range args {
		ref, err := parseResourceArg(arg, kind)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// projectFor picks the project of a command: the --project value (an ID, a
// URL or a project name) or else the project named by a URL argument.
func projectFor(ctx context.Context, s *session, projectArg string, refs ...resourceRef) (string, error) {
	if strings.TrimSpace(projectArg) != "" {
		return resolveProjectID(ctx, s, projectArg)
	}
	projectID := ""
	for _, ref := range refs {
		if ref.ProjectID == "" {
			continue
		}
		if projectID != "" && ref.ProjectID != projectID {
			return "", fmt.Errorf("arguments belong to different projects")
		}
		projectID = ref.ProjectID
	}
	if projectID == "" {
		return "", fmt.Errorf("--project is required")
	}
	return projectID, nil
}

// resolveProjectID turns a project ID, URL or name into a project ID. Names
// are matched against the cached project list.
func resolveProjectID(ctx context.Context, s *session, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if urlparse.IsURL(arg) {
		parsed, err := urlparse.Parse(arg)
		if err != nil {
			return "", err
		}
		return parsed.ProjectID, nil
	}

	id, err := resolve.IDOrName(ctx, arg, func(ctx context.Context) ([]resolve.Named, error) {
		return loadProjectNames(ctx, s)
	})
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, resolve.ErrNoMatch), errors.Is(err, resolve.ErrEmptyItems):
		return "", fmt.Errorf("project %q not found; run 'remsfal projects list' to see your projects", arg)
	default:
		return "", err
	}
}

func loadProjectNames(ctx context.Context, s *session) ([]resolve.Named, error) {
	fetch := func(ctx context.Context) ([]resolve.Named, error) {
		projects, err := s.client.Projects().ListAll(ctx, validation.MaxPageSize)
		if err != nil {
			return nil, err
		}
		named := make([]resolve.Named, 0, len(projects))
		for _, p := range projects {
			named = append(named, resolve.Named{ID: p.ID, Name: p.Name})
		}
		return named, nil
	}

	dir, err := cache.DefaultDir()
	if err != nil {
		return fetch(ctx)
	}
	store := cache.NewStore[[]resolve.Named](dir, "projects", s.cfg.BaseURL, cacheScope())
	return store.GetOrFetch(ctx, fetch)
}

// cacheScope separates cached lists of different profiles on one server.
func cacheScope() string {
	if flags.Profile != "" {
		return flags.Profile
	}
	profile, err := config.CurrentProfile()
	if err != nil {
		return ""
	}
	return profile
}

// invalidateProjectCache drops the cached project list after a project was
// created, renamed or deleted.
func invalidateProjectCache(s *session) {
	dir, err := cache.DefaultDir()
	if err != nil {
		return
	}
	cache.NewStore[[]resolve.Named](dir, "projects", s.cfg.BaseURL, cacheScope()).Clear()
}
