package api

import "context"

var (
	listPropertiesEndpoint = Get[PropertyList]("/api/v1/projects/{projectId}/properties")
	getPropertyEndpoint    = Get[Property]("/api/v1/projects/{projectId}/properties/{propertyId}")
	createPropertyEndpoint = Post[PropertyInput, Property]("/api/v1/projects/{projectId}/properties")
)

// List retrieves the properties of a project.
func (s PropertiesService) List(ctx context.Context, projectID string) ([]Property, error) {
	result, err := Call(ctx, s.Requester, listPropertiesEndpoint, Params{"projectId": projectID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return result.Properties, nil
}

// Get retrieves a property.
func (s PropertiesService) Get(ctx context.Context, projectID, propertyID string) (*Property, error) {
	result, err := Call(ctx, s.Requester, getPropertyEndpoint, Params{"projectId": projectID, "propertyId": propertyID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create creates a property in a project.
func (s PropertiesService) Create(ctx context.Context, projectID string, input PropertyInput) (*Property, error) {
	result, err := Call(ctx, s.Requester, createPropertyEndpoint, Params{"projectId": projectID}, input)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
