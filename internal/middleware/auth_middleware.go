package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"mohr/internal/domain"
	"mohr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// AuthMiddleware verifies the bearer token and stores the decoded
// identity in the request context. The secret is injected at build
// time; nothing below this layer ever sees the raw token.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			code, msg := "INVALID_TOKEN", "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				code, msg = "TOKEN_EXPIRED", "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, code, msg, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
			c.Abort()
			return
		}

		employeeID, _ := claims["employee_id"].(string)
		role, _ := claims["role"].(string)
		if role == "" {
			role = domain.RoleEmployee
		}

		SetIdentity(c, domain.Identity{
			UserID:     userID,
			EmployeeID: employeeID,
			Role:       role,
		})

		c.Next()
	}
}

// SetIdentity is exported for handler tests.
func SetIdentity(c *gin.Context, id domain.Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserID)
	c.Set("employee_id", id.EmployeeID)
	c.Set("role", id.Role)
}

// IdentityFrom returns the authenticated caller. The second return is
// false when the auth middleware did not run.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

// RequireAdmin rejects non-admin callers before the handler runs.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required", nil)
			c.Abort()
			return
		}
		if !id.IsAdmin() {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
