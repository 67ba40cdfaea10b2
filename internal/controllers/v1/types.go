package v1

import (
	"net/http"

	"github.com/Carl9703/moj-budzet-sub001/internal/uuid"
	"github.com/gin-gonic/gin"
	google_uuid "github.com/google/uuid"
)

type URIID struct {
	ID uuid.UUID `uri:"id" binding:"required"` // The ID of the resource
}

const userContextKey = "userID"

// ResolveUser reads the already authenticated user identity from the
// X-User-ID header. How that identity was proven is not a concern of
// this backend, an API gateway in front of it handles authentication.
func ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := google_uuid.Parse(c.GetHeader("X-User-ID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, httpError{
				Error: errUserIDRequired.Error(),
			})
			return
		}

		c.Set(userContextKey, id)
		c.Next()
	}
}

// currentUser returns the user the request is scoped to.
func currentUser(c *gin.Context) google_uuid.UUID {
	return c.MustGet(userContextKey).(google_uuid.UUID)
}
