package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system. Tokens are
// issued by the external identity service; this one only validates them.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleMaterial  UserRole = "MATERIAL"
	RoleInspector UserRole = "INSPECTOR"
	RoleUser      UserRole = "USER"
)

// JWTClaims carries the identity context attached to every request.
type JWTClaims struct {
	UserID         string   `json:"user_id"`
	OrganizationID string   `json:"organization_id"`
	Role           UserRole `json:"role"`
	jwt.RegisteredClaims
}
