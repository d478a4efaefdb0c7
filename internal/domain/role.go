package domain

import "time"

// Known role names. The set is closed: grants for any other name are rejected.
const (
	RoleAdmin     = "admin"
	RoleCustomer  = "customer"
	RoleVendor    = "vendor"
	RoleModerator = "moderator"
)

// ValidRoles lists every role name a user may be granted
var ValidRoles = []string{RoleAdmin, RoleCustomer, RoleVendor, RoleModerator}

// RoleDefinition describes one entry of the static role catalog
type RoleDefinition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// RoleCatalog is the static description of every role the system knows.
// Permissions are informational; authorization itself checks role names only.
var RoleCatalog = []RoleDefinition{
	{
		Name:        RoleAdmin,
		Description: "System administrator with full access",
		Permissions: []string{"manage_users", "manage_roles", "manage_sessions", "view_all_data", "system_configuration"},
	},
	{
		Name:        RoleCustomer,
		Description: "Regular customer with basic access",
		Permissions: []string{"view_own_profile", "update_own_profile", "manage_own_orders", "view_products"},
	},
	{
		Name:        RoleVendor,
		Description: "Product vendor with selling permissions",
		Permissions: []string{"manage_own_products", "view_own_orders", "manage_own_inventory", "view_analytics"},
	},
	{
		Name:        RoleModerator,
		Description: "Content moderator with review permissions",
		Permissions: []string{"review_products", "moderate_content", "manage_reports", "view_user_activity"},
	},
}

// IsValidRole reports whether name belongs to the closed role set
func IsValidRole(name string) bool {
	for _, r := range ValidRoles {
		if r == name {
			return true
		}
	}
	return false
}

// RoleGrant represents one (user, role name) assignment. Revocation is soft:
// the row stays with is_active = false.
type RoleGrant struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	RoleName       string     `json:"role_name" db:"role_name"`
	GrantedBy      *int64     `json:"granted_by" db:"granted_by"`
	GrantedByEmail *string    `json:"granted_by_email,omitempty" db:"granted_by_email"`
	GrantedAt      time.Time  `json:"granted_at" db:"granted_at"`
	ExpiresAt      *time.Time `json:"expires_at" db:"expires_at"`
	IsActive       bool       `json:"is_active" db:"is_active"`
}
