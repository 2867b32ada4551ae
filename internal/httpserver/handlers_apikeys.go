package httpserver

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loghaven/loghaven/internal/model"
)

type apiKeyRequest struct {
	ServerID int64  `json:"serverId"`
	Name     string `json:"name"`
}

func (s *Server) handleCreateAPIKey(c *gin.Context) {
	var req apiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.ServerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serverId is required"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if _, err := s.admin.GetServer(c.Request.Context(), req.ServerID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "key store unavailable, retry later"})
		return
	}

	token, err := generateKey()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "key generation failed"})
		return
	}

	key := &model.APIKey{
		ServerID: req.ServerID,
		Key:      token,
		Name:     req.Name,
		Active:   true,
	}
	if _, err := s.admin.CreateAPIKey(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "key store unavailable, retry later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"apiKey": key})
}

func (s *Server) handleListAPIKeys(c *gin.Context) {
	keys, err := s.admin.ListAPIKeys(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "key store unavailable, retry later"})
		return
	}
	if keys == nil {
		keys = []model.APIKey{}
	}
	c.JSON(http.StatusOK, gin.H{"apiKeys": keys})
}

func (s *Server) handleListServerAPIKeys(c *gin.Context) {
	serverID, ok := pathID(c)
	if !ok {
		return
	}

	keys, err := s.admin.ListAPIKeysByServer(c.Request.Context(), serverID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "key store unavailable, retry later"})
		return
	}
	if keys == nil {
		keys = []model.APIKey{}
	}
	c.JSON(http.StatusOK, gin.H{"apiKeys": keys})
}

func (s *Server) handleDeactivateAPIKey(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := s.admin.SetAPIKeyActive(c.Request.Context(), id, false)
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "api key not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "key store unavailable, retry later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// generateKey mints an opaque 256-bit credential, hex encoded.
func generateKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading randomness: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
