package api

// Models mirror the JSON documents of the remsfal REST API (/api/v1).

// MemberRole is a user's role within a project.
type MemberRole string

const (
	RoleProprietor   MemberRole = "PROPRIETOR"
	RoleManager      MemberRole = "MANAGER"
	RoleLessor       MemberRole = "LESSOR"
	RoleStaff        MemberRole = "STAFF"
	RoleCollaborator MemberRole = "COLLABORATOR"
)

// Address is a postal address.
type Address struct {
	Street      string `json:"street,omitempty" yaml:"street,omitempty"`
	City        string `json:"city,omitempty" yaml:"city,omitempty"`
	Province    string `json:"province,omitempty" yaml:"province,omitempty"`
	Zip         string `json:"zip,omitempty" yaml:"zip,omitempty"`
	CountryCode string `json:"countryCode,omitempty" yaml:"countryCode,omitempty"`
}

// User is the authenticated user's profile.
type User struct {
	ID                  string   `json:"id"`
	Email               string   `json:"email"`
	FirstName           string   `json:"firstName,omitempty"`
	LastName            string   `json:"lastName,omitempty"`
	MobilePhoneNumber   string   `json:"mobilePhoneNumber,omitempty"`
	BusinessPhoneNumber string   `json:"businessPhoneNumber,omitempty"`
	PrivatePhoneNumber  string   `json:"privatePhoneNumber,omitempty"`
	Address             *Address `json:"address,omitempty"`
	RegisteredDate      string   `json:"registeredDate,omitempty"`
	LastLoginDate       string   `json:"lastLoginDate,omitempty"`
}

// Name returns the user's display name.
func (u User) Name() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// ProjectItem is one entry of a project listing.
type ProjectItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	MemberRole MemberRole `json:"memberRole,omitempty"`
}

// ProjectList is a page of projects.
type ProjectList struct {
	Projects []ProjectItem `json:"projects"`
	First    int           `json:"first"`
	Size     int           `json:"size"`
	Total    int           `json:"total"`
}

// ProjectMember is a user with a role in a project.
type ProjectMember struct {
	ID     string     `json:"id,omitempty"`
	Email  string     `json:"email"`
	Name   string     `json:"name,omitempty"`
	Role   MemberRole `json:"role"`
	Active bool       `json:"active,omitempty"`
}

// Project is a facility-management project.
type Project struct {
	ID      string          `json:"id,omitempty"`
	Title   string          `json:"title"`
	Members []ProjectMember `json:"members,omitempty"`
}

// ProjectInput is the body for creating or renaming a project.
type ProjectInput struct {
	Title string `json:"title" yaml:"title"`
}

// Property is a plot of land within a project.
type Property struct {
	ID                     string  `json:"id,omitempty"`
	Title                  string  `json:"title"`
	Description            string  `json:"description,omitempty"`
	LandRegistry           string  `json:"landRegistry,omitempty"`
	CadastralDistrict      string  `json:"cadastralDistrict,omitempty"`
	Sheet                  string  `json:"sheet,omitempty"`
	Plot                   int     `json:"plot,omitempty"`
	PlotArea               int     `json:"plotArea,omitempty"`
	EffectiveSeparateCosts float64 `json:"effectiveSeparateCosts,omitempty"`
}

// PropertyList lists the properties of a project.
type PropertyList struct {
	Properties []Property `json:"properties"`
	First      int        `json:"first,omitempty"`
	Size       int        `json:"size,omitempty"`
	Total      int        `json:"total,omitempty"`
}

// PropertyInput is the body for creating a property.
type PropertyInput struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	PlotArea    int    `json:"plotArea,omitempty" yaml:"plotArea,omitempty"`
}

// Building is a building on a property.
type Building struct {
	ID              string   `json:"id,omitempty"`
	Title           string   `json:"title"`
	Address         *Address `json:"address,omitempty"`
	Description     string   `json:"description,omitempty"`
	LivingSpace     float64  `json:"livingSpace,omitempty"`
	CommercialSpace float64  `json:"commercialSpace,omitempty"`
	UsableSpace     float64  `json:"usableSpace,omitempty"`
	HeatingSpace    float64  `json:"heatingSpace,omitempty"`
}

// BuildingList lists the buildings of a property.
type BuildingList struct {
	Buildings []Building `json:"buildings"`
}

// BuildingInput is the body for creating a building.
type BuildingInput struct {
	Title       string   `json:"title" yaml:"title"`
	Address     *Address `json:"address,omitempty" yaml:"address,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Apartment is a rentable unit inside a building.
type Apartment struct {
	ID           string  `json:"id,omitempty"`
	Title        string  `json:"title"`
	Location     string  `json:"location,omitempty"`
	Description  string  `json:"description,omitempty"`
	LivingSpace  float64 `json:"livingSpace,omitempty"`
	UsableSpace  float64 `json:"usableSpace,omitempty"`
	HeatingSpace float64 `json:"heatingSpace,omitempty"`
}

// ApartmentList lists the apartments of a building.
type ApartmentList struct {
	Apartments []Apartment `json:"apartments"`
}

// Storage is a storage room or garage inside a building.
type Storage struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
	UsableSpace float64 `json:"usableSpace,omitempty"`
}

// StorageList lists the storages of a building.
type StorageList struct {
	Storages []Storage `json:"storages"`
}

// StorageInput is the body for creating a storage.
type StorageInput struct {
	Title       string  `json:"title" yaml:"title"`
	Location    string  `json:"location,omitempty" yaml:"location,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	UsableSpace float64 `json:"usableSpace,omitempty" yaml:"usableSpace,omitempty"`
}
