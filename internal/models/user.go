package models

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleCustomer   = "CUSTOMER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

type AppMetadata struct {
	Role string `json:"role,omitempty"`
}

// Claims is the identity provider token. The subject is the stable user id.
type Claims struct {
	Email       string      `json:"email,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

// Role defaults to CUSTOMER when the token carries none.
func (c *Claims) Role() string {
	role := strings.ToUpper(strings.TrimSpace(c.AppMetadata.Role))
	if role == "" {
		return RoleCustomer
	}

	return role
}

// HasRole reports whether the claims satisfy any of roles. SUPER_ADMIN
// satisfies every role.
func (c *Claims) HasRole(roles ...string) bool {
	role := c.Role()
	if role == RoleSuperAdmin {
		return true
	}

	for _, r := range roles {
		if strings.ToUpper(r) == role {
			return true
		}
	}

	return false
}
