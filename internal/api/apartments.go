package api

import "context"

var (
	listApartmentsEndpoint  = Get[ApartmentList]("/api/v1/projects/{projectId}/buildings/{buildingId}/apartments")
	getApartmentEndpoint    = Get[Apartment]("/api/v1/projects/{projectId}/apartments/{apartmentId}")
	updateApartmentEndpoint = Patch[Apartment, Apartment]("/api/v1/projects/{projectId}/apartments/{apartmentId}")
	deleteApartmentEndpoint = Delete("/api/v1/projects/{projectId}/apartments/{apartmentId}")
)

// List retrieves the apartments of a building.
func (s ApartmentsService) List(ctx context.Context, projectID, buildingID string) ([]Apartment, error) {
	result, err := Call(ctx, s.Requester, listApartmentsEndpoint, Params{"projectId": projectID, "buildingId": buildingID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return result.Apartments, nil
}

// Get retrieves an apartment.
func (s ApartmentsService) Get(ctx context.Context, projectID, apartmentID string) (*Apartment, error) {
	result, err := Call(ctx, s.Requester, getApartmentEndpoint, Params{"projectId": projectID, "apartmentId": apartmentID}, NoBody{})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Update patches an apartment. Zero-valued fields are left unchanged.
func (s ApartmentsService) Update(ctx context.Context, projectID, apartmentID string, patch Apartment) (*Apartment, error) {
	result, err := Call(ctx, s.Requester, updateApartmentEndpoint, Params{"projectId": projectID, "apartmentId": apartmentID}, patch)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete deletes an apartment.
func (s ApartmentsService) Delete(ctx context.Context, projectID, apartmentID string) error {
	_, err := Call(ctx, s.Requester, deleteApartmentEndpoint, Params{"projectId": projectID, "apartmentId": apartmentID}, NoBody{})
	return err
}
