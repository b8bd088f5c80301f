package users

import "time"

// User is a platform account: policyholders, agents and admins share the same
// table, distinguished by Role. Sub links the row to the OIDC identity when
// the account was provisioned through SSO.
type User struct {
	ID        int64     `json:"id"`
	Sub       string    `json:"sub,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)
