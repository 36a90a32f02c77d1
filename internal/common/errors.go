// Package common defines shared constants and sentinel errors used across
// the server, its repositories and the admin CLI. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level error kinds. The HTTP layer maps each kind to a status code.
	ErrorBadRequest   = errors.New("bad request")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")

	// Authorization header errors.
	ErrorMalformedAuthHeader = fmt.Errorf("%w: malformed authorization header", ErrorBadRequest)

	// Access token errors, in the order they are checked.
	ErrMalformedToken   = fmt.Errorf("%w: malformed token", ErrorUnauthorized)
	ErrInvalidSignature = fmt.Errorf("%w: invalid token signature", ErrorUnauthorized)
	ErrTokenExpired     = fmt.Errorf("%w: token expired", ErrorUnauthorized)
	ErrInvalidIssuer    = fmt.Errorf("%w: invalid token issuer", ErrorUnauthorized)
)
