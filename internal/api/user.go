package api

import "context"

var getUserEndpoint = Get[User]("/api/v1/user")

// Get retrieves the authenticated user.
func (s UserService) Get(ctx context.Context) (*User, error) {
	user, err := Call(ctx, s.Requester, getUserEndpoint, nil, NoBody{})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
