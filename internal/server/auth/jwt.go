// Package auth issues and validates HS256 access tokens and parses bearer
// credentials from the Authorization header.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenSigner mints and verifies access tokens for a single issuer.
// It holds no mutable state and is safe for concurrent use.
type TokenSigner struct {
	issuer string
	now    func() time.Time
}

// NewTokenSigner returns a signer for issuer. A nil now uses time.Now.
func NewTokenSigner(issuer string, now func() time.Time) *TokenSigner {
	if now == nil {
		now = time.Now
	}
	return &TokenSigner{issuer: issuer, now: now}
}

// Issuer returns the iss value embedded in every token.
func (s *TokenSigner) Issuer() string {
	return s.issuer
}

// Issue signs {iss, sub, iat, exp=iat+ttl} with HS256.
func (s *TokenSigner) Issue(subject string, ttl time.Duration, secret []byte) (string, error) {
	now := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate returns the subject of a token signed with secret. Checks run in
// order: structure, signature, expiry, issuer, subject.
func (s *TokenSigner) Validate(tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", mapParseError(err)
	}

	// a token is already invalid at the instant it expires
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.now()) {
		return "", common.ErrTokenExpired
	}

	if claims.Issuer != s.issuer {
		return "", common.ErrInvalidIssuer
	}

	if claims.Subject == "" {
		return "", common.ErrMalformedToken
	}

	return claims.Subject, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrMalformedToken
	}
}
