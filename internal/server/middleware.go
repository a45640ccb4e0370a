package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbooks/smallbooks/internal/actorcontext"
)

const contextUserIDKey = "user_id"

// AuthRequired gates a route group behind a valid session cookie and
// stashes the authenticated user on both the gin context and the
// request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Request = c.Request.WithContext(
			actorcontext.WithUserID(c.Request.Context(), session.UserID),
		)
		c.Next()
	}
}

// actorID returns the authenticated user on the request, set by
// AuthRequired.
func actorID(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok && id != 0
}
