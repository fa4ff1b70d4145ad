// File: internal/middleware/auth.go
package middleware

import (
	"localpro_backend/internal/common" // For common.RespondWithError and error types
	"localpro_backend/internal/shared" // For shared.TokenService and shared.Claims

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserClaimsKey stores the whole claims object in the Gin context.
const UserClaimsKey = "userClaims"

// AuthMiddleware creates a Gin middleware for JWT authentication. The token
// is read from the x-auth-token header, with Bearer Authorization as a
// fallback. Claims whose token version no longer matches the stored user
// are treated as invalid, which is how password resets revoke old tokens.
func AuthMiddleware(tokenService shared.TokenService, versions shared.TokenVersionChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Auth token missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No token, authorization denied."))
			// c.Abort() is handled by RespondWithError's AbortWithStatusJSON
			return
		}

		claims, err := tokenService.ValidateToken(tokenString)
		if err != nil {
			logger.Warn("Token validation failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Token is not valid."))
			return
		}

		currentVersion, err := versions.CurrentTokenVersion(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Token version lookup failed",
				zap.String("userID", claims.UserID.String()), zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Token is not valid."))
			return
		}
		if claims.TokenVersion != currentVersion {
			logger.Info("Rejected token with stale version",
				zap.String("userID", claims.UserID.String()),
				zap.Int("claim_version", claims.TokenVersion),
				zap.Int("current_version", currentVersion),
			)
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Token is not valid."))
			return
		}

		// Set user information in context for downstream handlers
		c.Set(common.UserIDKey, claims.UserID)
		c.Set(common.UserRoleKey, claims.Role)
		c.Set(common.TokenVersionKey, claims.TokenVersion)
		c.Set(UserClaimsKey, claims)

		logger.Debug("User authenticated successfully",
			zap.String("userID", claims.UserID.String()),
			zap.String("role", claims.Role),
		)

		c.Next()
	}
}

// GetUserClaimsFromContext retrieves the full claims object from the Gin context.
func GetUserClaimsFromContext(c *gin.Context) *shared.Claims {
	val, exists := c.Get(UserClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := val.(*shared.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			// This should ideally not happen if AuthMiddleware ran successfully
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}
