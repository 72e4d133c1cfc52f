package security

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rhizano/era-beacon-api/internal/config"
	"github.com/rhizano/era-beacon-api/internal/shared/errors"
)

type JWTService struct {
	accessSecret []byte
	accessExpiry time.Duration
	issuer       string
	audience     string
}

type Claims struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		accessSecret: []byte(cfg.AccessSecret),
		accessExpiry: cfg.AccessExpiry,
		issuer:       "era-beacon-api",
		audience:     "era-beacon-clients",
	}
}

func (j *JWTService) GenerateAccessToken(ctx context.Context, userID uint64, username string) (string, error) {
	jti, _ := uuid.NewRandom()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			ID:        jti.String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.accessSecret)
}

func (j *JWTService) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.accessSecret, nil
	})
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New(errors.ErrCodeExpiredToken, "Token expired")
		}
		return nil, errors.New(errors.ErrCodeInvalidToken, "Authentication failed")
	}

	if !token.Valid {
		return nil, errors.New(errors.ErrCodeInvalidToken, "Authentication failed")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidToken, "Invalid token claims")
	}

	if claims.Issuer != j.issuer {
		return nil, errors.New(errors.ErrCodeInvalidToken, "Invalid token issuer")
	}

	validAudience := slices.Contains(claims.Audience, j.audience)
	if !validAudience {
		return nil, errors.New(errors.ErrCodeInvalidToken, "Invalid token audience")
	}

	return claims, nil
}

func (j *JWTService) GetAccessExpiry() time.Duration {
	return j.accessExpiry
}
