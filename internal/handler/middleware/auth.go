package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/usecase"
	"rental-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
	logger         *slog.Logger
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
	ctxClaimsKey   = "jwt_claims"
)

var (
	errMissingToken = errors.New("access token required")
	errNoActor      = errors.New("role check used without RequireAuth")
	errRoleDenied   = errors.New("role not allowed")
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
		logger:         logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		actor, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			m.logger.Warn("token validation failed", "error", err.Error(), "request_id", GetRequestID(c))
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxUserIDKey, actor.ID)
		c.Set(ctxUserRoleKey, actor.Role)
		c.Set(ctxClaimsKey, map[string]any{
			"user_id": actor.ID.String(),
			"role":    string(actor.Role),
		})
		c.Next()
	}
}

// RequireRole admits callers holding any of roles. Use after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
			return
		}

		if !slices.Contains(roles, role) {
			httperr.AbortWithError(c, http.StatusForbidden, errRoleDenied, "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}

// GetActor returns the authenticated caller set by RequireAuth.
func GetActor(c *gin.Context) (shared.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return shared.Actor{}, false
	}
	role, ok := GetUserRole(c)
	if !ok {
		return shared.Actor{}, false
	}
	return shared.Actor{ID: id, Role: role}, true
}
