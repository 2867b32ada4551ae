package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loghaven/loghaven/internal/model"
)

type serverRequest struct {
	Name        string `json:"name"`
	Hostname    string `json:"hostname"`
	IPAddress   string `json:"ipAddress"`
	ServerType  string `json:"serverType"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

func (r serverRequest) validate() (string, bool) {
	if r.Name == "" {
		return "name is required", false
	}
	if r.ServerType != "" && !model.ValidServerClass(r.ServerType) {
		return "unknown serverType", false
	}
	return "", true
}

func (s *Server) handleCreateServer(c *gin.Context) {
	var req serverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	class := req.ServerType
	if class == "" {
		class = model.ServerClassOther
	}

	srv := &model.Server{
		Name:        req.Name,
		Hostname:    req.Hostname,
		IPAddress:   req.IPAddress,
		Class:       class,
		Description: req.Description,
		Location:    req.Location,
		Active:      true,
	}
	id, err := s.admin.CreateServer(c.Request.Context(), srv)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server store unavailable, retry later"})
		return
	}

	created, err := s.admin.GetServer(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server store unavailable, retry later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"server": created})
}

func (s *Server) handleListServers(c *gin.Context) {
	servers, err := s.admin.ListServers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server store unavailable, retry later"})
		return
	}
	if servers == nil {
		servers = []model.Server{}
	}
	c.JSON(http.StatusOK, gin.H{"servers": servers})
}

func (s *Server) handleGetServer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	srv, err := s.admin.GetServer(c.Request.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server store unavailable, retry later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"server": srv})
}

func (s *Server) handleUpdateServer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req serverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	srv, err := s.admin.GetServer(c.Request.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server store unavailable, retry later"})
		return
	}

	srv.Name = req.Name
	srv.Hostname = req.Hostname
	srv.IPAddress = req.IPAddress
	if req.ServerType != "" {
		srv.Class = req.ServerType
	}
	srv.Description = req.Description
	srv.Location = req.Location

	if err := s.admin.UpdateServer(c.Request.Context(), srv); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server store unavailable, retry later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"server": srv})
}

func (s *Server) handleHeartbeat(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := s.admin.TouchHeartbeat(c.Request.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server store unavailable, retry later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDeactivateServer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := s.admin.SetServerActive(c.Request.Context(), id, false)
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server store unavailable, retry later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
