package model

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

type AccessRefresh struct {
	UserID int `json:"userId"`
	jwt.RegisteredClaims
}
