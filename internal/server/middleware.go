package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	auditcontext "github.com/imigpt/foodzippy-backend/internal/auditcontext"
	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	obscontext "github.com/imigpt/foodzippy-backend/internal/observability/context"
)

const actorContextKey = "auth_actor"

// AuthRequired authenticates the bearer token and stores the acting
// user on the request for downstream handlers and audit records.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = obscontext.WithActor(ctx, string(actor.Role), actor.ID.String())
		ctx = auditcontext.WithActor(ctx, string(actor.Role), actor.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(actorContextKey, actor)

		c.Next()
	}
}

// RequireRole gates a route to the named roles. It assumes AuthRequired
// already ran on the group.
func (s *Server) RequireRole(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromGin(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		AbortWithError(c, ErrForbidden)
	}
}

func actorFromGin(c *gin.Context) (authdomain.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return authdomain.Actor{}, false
	}
	actor, ok := value.(authdomain.Actor)
	return actor, ok
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
