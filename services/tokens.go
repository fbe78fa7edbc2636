package services

import (
	"errors"
	"fmt"
	"time"

	"pmdashboard/apperr"
	"pmdashboard/model"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "pmdashboard"

// TokenIssuer signs and verifies the HS256 access and refresh tokens.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// CreateAccessToken returns a short-lived token carrying the session.
func (ti *TokenIssuer) CreateAccessToken(s model.Session) (string, error) {
	now := ti.now()
	claims := &model.AccessClaims{
		UserID:   s.UserID,
		Username: s.Username,
		Role:     s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.accessSecret)
}

// CreateRefreshToken returns a long-lived token carrying only the user id.
func (ti *TokenIssuer) CreateRefreshToken(userID int) (string, error) {
	now := ti.now()
	claims := &model.AccessRefresh{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.refreshTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.refreshSecret)
}

// ParseAccessToken verifies an access token and returns its session.
func (ti *TokenIssuer) ParseAccessToken(tokenString string) (model.Session, error) {
	var claims model.AccessClaims
	if err := ti.parse(tokenString, &claims, ti.accessSecret); err != nil {
		return model.Session{}, err
	}
	if claims.UserID == 0 {
		return model.Session{}, apperr.New(apperr.CodeRejected, "invalid userId in token claims")
	}
	return model.Session{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// ParseRefreshToken verifies a refresh token and returns its user id.
func (ti *TokenIssuer) ParseRefreshToken(tokenString string) (int, error) {
	var claims model.AccessRefresh
	if err := ti.parse(tokenString, &claims, ti.refreshSecret); err != nil {
		return 0, err
	}
	if claims.UserID == 0 {
		return 0, apperr.New(apperr.CodeRejected, "invalid userId in token claims")
	}
	return claims.UserID, nil
}

func (ti *TokenIssuer) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return apperr.Wrap(apperr.CodeRejected, "token is expired", err)
		}
		return apperr.Wrap(apperr.CodeRejected, "token is invalid", err)
	}
	return nil
}
