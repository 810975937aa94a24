package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// OperatorRole represents the roles allowed to call timetable endpoints.
type OperatorRole string

const (
	RoleAdmin     OperatorRole = "ADMIN"
	RoleScheduler OperatorRole = "SCHEDULER"
	RoleViewer    OperatorRole = "VIEWER"
)

// Valid reports whether the role is known.
func (r OperatorRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleScheduler, RoleViewer:
		return true
	}
	return false
}

// JWTClaims represents the JWT payload for operator tokens. The operator name
// is carried in the registered subject.
type JWTClaims struct {
	Role OperatorRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenResponse is returned when a token is issued.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
