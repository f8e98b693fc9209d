package common

const (
	// AuthorizationHeader carries the bearer token on HTTP requests.
	AuthorizationHeader = "Authorization"

	// AuthorizationMetadataKey carries the bearer token in gRPC metadata.
	// gRPC lowercases all metadata keys.
	AuthorizationMetadataKey = "authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"
)
