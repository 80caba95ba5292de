package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetEarnings(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("creator_id"))
	if userID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	snapshot, err := s.earningsSvc.Snapshot(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snapshot})
}
