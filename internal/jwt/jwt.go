// Package jwt provides functions for generating and validating JWTs.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTDuration = 30 * time.Minute
	DefaultKID  = "1"
)

type JWTParams struct {
	UserID      string
	Email       string
	DisplayName string
}

func GenerateJWT(params JWTParams, secret []byte, version string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   params.UserID,
		"email": params.Email,
		"name":  params.DisplayName,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(JWTDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = version

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func ValidateJWT(rawToken, version string, secret []byte) (*jwt.Token, error) {
	parserFunc := func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing/invalid kid value")
		}
		if kid != version {
			return nil, fmt.Errorf("verifying KID value, value=%q", kid)
		}
		return secret, nil
	}

	token, err := jwt.Parse(rawToken, parserFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return token, nil
}
