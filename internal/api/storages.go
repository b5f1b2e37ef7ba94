package api

import "context"

var (
	listStoragesEndpoint  = Get[StorageList]("/api/v1/projects/{projectId}/buildings/{buildingId}/storages")
	createStorageEndpoint = Post[StorageInput, Storage]("/api/v1/projects/{projectId}/buildings/{buildingId}/storages")
	getStorageEndpoint    = Get[Storage]("/api/v1/projects/{projectId}/storages/{storageId}")
)

// List retrieves the storages of a building.
func (s StoragesService) List(ctx context.Context, projectID, buildingID string) ([]Storage, error) {
	result, err := Call(ctx, s.Requester, listStoragesEndpoint, Params{"projectId": projectID, "buildingId": buildingID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return result.Storages, nil
}

// Get retrieves a storage.
func (s StoragesService) Get(ctx context.Context, projectID, storageID string) (*Storage, error) {
	result, err := Call(ctx, s.Requester, getStorageEndpoint, Params{"projectId": projectID, "storageId": storageID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create creates a storage in a building.
func (s StoragesService) Create(ctx context.Context, projectID, buildingID string, input StorageInput) (*Storage, error) {
	result, err := Call(ctx, s.Requester, createStorageEndpoint, Params{"projectId": projectID, "buildingId": buildingID}, input)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
