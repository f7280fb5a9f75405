package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	followupdomain "github.com/imigpt/foodzippy-backend/internal/followup/domain"
)

func (s *Server) GetFollowUpQueue(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	agentID := strings.TrimSpace(c.Query("agent_id"))
	if agentID == "" {
		agentID = actor.ID.String()
	}

	queue, err := s.followupSvc.GetQueue(c.Request.Context(), followupdomain.GetQueueRequest{
		Actor:   actor,
		AgentID: agentID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": queue})
}
