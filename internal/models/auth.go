package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the operator identity on authenticated requests.
type JWTClaims struct {
	OperatorID string `json:"operatorId"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
