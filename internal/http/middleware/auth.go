package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/vitality-backend/internal/platform/ctxutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

const (
	// RoleService marks a token issued to a backend caller (scheduler,
	// delivery pipeline) that may act on any user.
	RoleService = "service"

	contextUserID = "auth_user_id"
	contextRole   = "auth_role"
)

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

type AuthMiddleware struct {
	log       *logger.Logger
	secretKey []byte
}

func NewAuthMiddleware(log *logger.Logger, secretKey string) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), secretKey: []byte(secretKey)}
}

// RequireAuth validates an HS256 bearer token and records the subject as
// the request actor. Service-role tokens carry no actor.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		claims, err := am.parse(tokenString)
		if err != nil {
			am.log.Debug("Rejected token", "error", err)
			abortAuth(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		if claims.Role != RoleService {
			subject, err := uuid.Parse(claims.Subject)
			if err != nil {
				abortAuth(c, http.StatusUnauthorized, "unauthorized", "invalid subject in token")
				return
			}
			c.Set(contextUserID, subject)
			c.Request = c.Request.WithContext(ctxutil.WithActor(c.Request.Context(), subject))
		}
		c.Set(contextRole, claims.Role)
		c.Next()
	}
}

// RequireSelf restricts a user-scoped route to the user named by param.
func (am *AuthMiddleware) RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(contextRole); role == RoleService {
			c.Next()
			return
		}
		subject, ok := AuthUserID(c)
		if !ok {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		if !strings.EqualFold(strings.TrimSpace(c.Param(param)), subject.String()) {
			abortAuth(c, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return am.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

// AuthUserID returns the authenticated subject, if any.
func AuthUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(contextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortAuth(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"message": msg, "code": code},
	})
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
