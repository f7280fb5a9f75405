package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	notificationdomain "github.com/imigpt/foodzippy-backend/internal/notification/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
)

func (s *Server) ListNotifications(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query struct {
		pagination.Pagination
		UnreadOnly bool `form:"unread_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.notificationSvc.List(c.Request.Context(), notificationdomain.ListNotificationRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		Actor:      actor,
		UnreadOnly: query.UnreadOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UnreadNotificationCount(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	count, err := s.notificationSvc.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count}})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), actor, strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

func (s *Server) MarkAllNotificationsRead(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	modified, err := s.notificationSvc.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"modified": modified}})
}

func (s *Server) DeleteNotification(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.notificationSvc.Delete(c.Request.Context(), actor, strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "deleted"}})
}

func (s *Server) ClearReadNotifications(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	removed, err := s.notificationSvc.ClearRead(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"removed": removed}})
}
