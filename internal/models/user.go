package models

// UserRole represents the permission level of the acting staff member.
type UserRole string

const (
	RoleAdmin              UserRole = "admin"
	RoleGeneralCoordinator UserRole = "general_coordinator"
	RoleSubnetCoordinator  UserRole = "subnet_coordinator"
	RoleManager            UserRole = "manager"
	RoleContributor        UserRole = "contributor"
)

// KnownRoles lists every role the access rules distinguish.
var KnownRoles = []UserRole{RoleAdmin, RoleGeneralCoordinator, RoleSubnetCoordinator, RoleManager, RoleContributor}

// Identity is the already-resolved acting user. Any role outside KnownRoles is
// treated as a contributor.
type Identity struct {
	ID      string   `json:"id" yaml:"id"`
	Role    UserRole `json:"role" yaml:"role"`
	Network string   `json:"network" yaml:"network"`
	Center  string   `json:"center" yaml:"center"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
