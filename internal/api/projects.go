package api

import "context"

var (
	listProjectsEndpoint  = Get[ProjectList]("/api/v1/projects")
	getProjectEndpoint    = Get[Project]("/api/v1/projects/{projectId}")
	createProjectEndpoint = Post[ProjectInput, Project]("/api/v1/projects")
	updateProjectEndpoint = Patch[ProjectInput, Project]("/api/v1/projects/{projectId}")
	deleteProjectEndpoint = Delete("/api/v1/projects/{projectId}")
)

// List retrieves one page of the user's projects. Zero limit or offset
// leaves the server default.
func (s ProjectsService) List(ctx context.Context, limit, offset int) (*ProjectList, error) {
	return listProjects(ctx, s.Requester, limit, offset)
}

func listProjects(ctx context.Context, r Requester, limit, offset int) (*ProjectList, error) {
	params := Params{}
	if limit > 0 {
		params["limit"] = limit
	}
	if offset > 0 {
		params["offset"] = offset
	}
	result, err := Call(ctx, r, listProjectsEndpoint, params, NoBody{})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAll pages through every project.
func (s ProjectsService) ListAll(ctx context.Context, pageSize int) ([]ProjectItem, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	var all []ProjectItem
	for offset := 0; ; offset += pageSize {
		page, err := listProjects(ctx, s.Requester, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Projects...)
		if len(page.Projects) < pageSize || (page.Total > 0 && len(all) >= page.Total) {
			return all, nil
		}
	}
}

// Get retrieves a project by ID.
func (s ProjectsService) Get(ctx context.Context, projectID string) (*Project, error) {
	result, err := Call(ctx, s.Requester, getProjectEndpoint, Params{"projectId": projectID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create creates a project.
func (s ProjectsService) Create(ctx context.Context, title string) (*Project, error) {
	result, err := Call(ctx, s.Requester, createProjectEndpoint, nil, ProjectInput{Title: title})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Update renames a project.
func (s ProjectsService) Update(ctx context.Context, projectID, title string) (*Project, error) {
	result, err := Call(ctx, s.Requester, updateProjectEndpoint, Params{"projectId": projectID}, ProjectInput{Title: title})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete deletes a project.
func (s ProjectsService) Delete(ctx context.Context, projectID string) error {
	_, err := Call(ctx, s.Requester, deleteProjectEndpoint, Params{"projectId": projectID}, NoBody{})
	return err
}
