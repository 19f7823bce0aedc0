package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role issued today
const RoleAdmin = "admin"

// Claims represents JWT custom claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
