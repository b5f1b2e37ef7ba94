package api

// Service accessors group the typed endpoints by resource. Each service
// embeds the Requester it was created from.

type UserService struct{ Requester }

type ProjectsService struct{ Requester }

type PropertiesService struct{ Requester }

type BuildingsService struct{ Requester }

type ApartmentsService struct{ Requester }

type StoragesService struct{ Requester }

func (c *Client) User() UserService {
	return UserService{c}
}

func (c *Client) Projects() ProjectsService {
	return ProjectsService{c}
}

func (c *Client) Properties() PropertiesService {
	return PropertiesService{c}
}

func (c *Client) Buildings() BuildingsService {
	return BuildingsService{c}
}

func (c *Client) Apartments() ApartmentsService {
	return ApartmentsService{c}
}

func (c *Client) Storages() StoragesService {
	return StoragesService{c}
}
