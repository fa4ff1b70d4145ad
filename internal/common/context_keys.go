// File: internal/common/context_keys.go
package common

const (
	// AuthTokenHeader is the primary header carrying the JWT.
	AuthTokenHeader = "x-auth-token"
	// AuthorizationHeader is the fallback header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for storing the authenticated user's ID
	UserIDKey = "userID"
	// UserRoleKey is the context key for storing the authenticated user's role
	UserRoleKey = "userRole"
	// TokenVersionKey is the context key for the token version carried by the JWT
	TokenVersionKey = "tokenVersion"
)
