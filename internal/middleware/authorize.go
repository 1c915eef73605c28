package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"miniportfolio/api/internal/models"
	"miniportfolio/api/internal/repository"
)

// RequireRoles resolves the authenticated identity and rejects it unless its
// role is in the allowed set. Runs strictly after Auth, so a 403 here is only
// reachable with a valid token. An id that no longer resolves to a record is
// rejected the same way as an insufficient role.
func RequireRoles(store repository.UserStore, roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		user, err := store.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. Admin privileges required."})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. Admin privileges required."})
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}
