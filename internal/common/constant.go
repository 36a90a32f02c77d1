package common

const (
	// AuthorizationHeaderName carries bearer credentials on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// RefreshTokenBytes is the entropy of an opaque refresh token, 256 bits.
	RefreshTokenBytes = 32
)
