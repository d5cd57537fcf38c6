// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Package sec provides password hashing, account roles and access-token
// verification.
//
// # Architecture
//
// Security-sensitive code is isolated here so the domain packages only ever
// see an [AuthClaims] value and a [Role].
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSigningDisabled is returned by [TokenService.GenerateAccessToken] when the
// service was built without a private key.
var ErrSigningDisabled = errors.New("sec: token signing is not configured")

// AuthClaims is the payload embedded inside an access token.
//
// The role travels in the token so the API can authorize a request without a
// database round-trip. It is parsed into the closed [Role] set on decode.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     Role   `json:"rol"`
}

// TokenService signs and verifies RS256 access tokens.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService creates a TokenService from key material.
// A nil privateKey yields a verify-only service.
func NewTokenService(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}
}

/*
LoadTokenService reads PEM-encoded RSA keys from disk.

Parameters:
  - privateKeyPath: optional; empty means the service can only verify
  - publicKeyPath: required
  - issuer: expected and emitted "iss" claim

Returns:
  - *TokenService: ready service
  - error: when a key cannot be read or parsed
*/
func LoadTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	var privateKey *rsa.PrivateKey
	if privateKeyPath != "" {
		privateKeyData, err := os.ReadFile(privateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
		}

		privateKey, err = jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
		}
	}

	return NewTokenService(privateKey, publicKey, issuer), nil
}

// GenerateAccessToken creates a signed access token for a user.
func (service *TokenService) GenerateAccessToken(userID, username string, role Role, timeToLive time.Duration) (string, error) {
	if service.privateKey == nil {
		return "", ErrSigningDisabled
	}

	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature, issuer and expiry of a token string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	}, jwt.WithIssuer(service.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}

// Principal returns the identity carried by the claims.
func (claims *AuthClaims) Principal() Principal {
	return Principal{UserID: claims.UserID, Role: claims.Role}
}
