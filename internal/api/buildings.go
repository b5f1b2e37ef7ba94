package api

import "context"

var (
	listBuildingsEndpoint  = Get[BuildingList]("/api/v1/projects/{projectId}/properties/{propertyId}/buildings")
	createBuildingEndpoint = Post[BuildingInput, Building]("/api/v1/projects/{projectId}/properties/{propertyId}/buildings")
	getBuildingEndpoint    = Get[Building]("/api/v1/projects/{projectId}/buildings/{buildingId}")
)

// List retrieves the buildings on a property.
func (s BuildingsService) List(ctx context.Context, projectID, propertyID string) ([]Building, error) {
	result, err := Call(ctx, s.Requester, listBuildingsEndpoint, Params{"projectId": projectID, "propertyId": propertyID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return result.Buildings, nil
}

// Get retrieves a building.
func (s BuildingsService) Get(ctx context.Context, projectID, buildingID string) (*Building, error) {
	result, err := Call(ctx, s.Requester, getBuildingEndpoint, Params{"projectId": projectID, "buildingId": buildingID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create creates a building on a property.
func (s BuildingsService) Create(ctx context.Context, projectID, propertyID string, input BuildingInput) (*Building, error) {
	result, err := Call(ctx, s.Requester, createBuildingEndpoint, Params{"projectId": projectID, "propertyId": propertyID}, input)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
