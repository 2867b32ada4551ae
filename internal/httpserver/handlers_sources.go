package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loghaven/loghaven/internal/model"
)

type logSourceRequest struct {
	ServerID     int64  `json:"serverId"`
	SourceType   string `json:"sourceType"`
	SourceConfig string `json:"sourceConfig"`
}

func (s *Server) handleCreateLogSource(c *gin.Context) {
	var req logSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.ServerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serverId is required"})
		return
	}
	if req.SourceType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceType is required"})
		return
	}

	if _, err := s.admin.GetServer(c.Request.Context(), req.ServerID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "source store unavailable, retry later"})
		return
	}

	src := &model.LogSource{
		ServerID:     req.ServerID,
		SourceType:   req.SourceType,
		SourceConfig: req.SourceConfig,
		Enabled:      true,
	}
	if _, err := s.admin.CreateLogSource(c.Request.Context(), src); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "source store unavailable, retry later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logSource": src})
}

func (s *Server) handleListServerLogSources(c *gin.Context) {
	serverID, ok := pathID(c)
	if !ok {
		return
	}

	sources, err := s.admin.ListLogSourcesByServer(c.Request.Context(), serverID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "source store unavailable, retry later"})
		return
	}
	if sources == nil {
		sources = []model.LogSource{}
	}
	c.JSON(http.StatusOK, gin.H{"logSources": sources})
}
