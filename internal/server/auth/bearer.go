package auth

import (
	"strings"

	"github.com/dmitrijs2005/chirpy/internal/common"
)

// ExtractBearerToken returns the second space-separated field of an
// Authorization header whose scheme is exactly "Bearer". Fields after the
// token are ignored.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", common.ErrorMalformedAuthHeader
	}

	parts := strings.Split(header, " ")
	if len(parts) < 2 || parts[0] != common.BearerScheme || parts[1] == "" {
		return "", common.ErrorMalformedAuthHeader
	}

	return parts[1], nil
}
