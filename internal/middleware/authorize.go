package middleware

import (
	"net/http"

	"mohr/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Enforcer decides whether a role may perform an action on a resource.
// Satisfied by rbac.Service.
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

// Authorize gates a route on the caller's role. Ownership scoping
// (an employee seeing only their own records) stays in the services;
// this only answers "may this role hit this endpoint at all".
func Authorize(enforcer Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required", nil)
			c.Abort()
			return
		}

		allowed, err := enforcer.Enforce(id.Role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}

		c.Next()
	}
}
