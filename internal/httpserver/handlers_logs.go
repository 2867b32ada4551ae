package httpserver

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/loghaven/loghaven/internal/gateway"
	"github.com/loghaven/loghaven/internal/model"
)

func (s *Server) handleIngest(c *gin.Context) {
	var req model.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	sub := req.Submission(requestClientIP(c))
	if err := s.gw.Ingest(c.Request.Context(), sub); err != nil {
		s.writeIngestError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// writeIngestError maps the gateway taxonomy onto status codes. Credential,
// identity and origin failures carry their reason; storage failures are
// retryable and, in release mode, deliberately vague.
func (s *Server) writeIngestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gateway.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, gateway.ErrMissingIdentity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		var originErr *gateway.OriginError
		if errors.As(err, &originErr) {
			c.JSON(http.StatusForbidden, gin.H{"error": originErr.Error()})
			return
		}
		var persistErr *gateway.PersistenceError
		if errors.As(err, &persistErr) {
			msg := persistErr.Error()
			if s.cfg.ReleaseMode {
				msg = "log storage unavailable, retry later"
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingestion failed"})
	}
}

type searchRequest struct {
	ServerID   int64  `json:"serverId"`
	Level      string `json:"level"`
	Source     string `json:"source"`
	StartTime  int64  `json:"startTime"`
	EndTime    int64  `json:"endTime"`
	SearchText string `json:"searchText"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	entries, err := s.engine.Search(c.Request.Context(), model.LogFilter{
		ServerID:   req.ServerID,
		Level:      req.Level,
		Source:     req.Source,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		SearchText: req.SearchText,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search unavailable, retry later"})
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

func (s *Server) handleServerLogs(c *gin.Context) {
	serverID, ok := pathID(c)
	if !ok {
		return
	}

	entries, err := s.engine.Search(c.Request.Context(), model.LogFilter{
		ServerID: serverID,
		Limit:    intQuery(c, "limit", model.DefaultSearchLimit),
		Offset:   intQuery(c, "offset", 0),
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search unavailable, retry later"})
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

func (s *Server) handleStatistics(c *gin.Context) {
	serverID, ok := pathID(c)
	if !ok {
		return
	}

	rows, err := s.reporter.Rollup(c.Request.Context(), serverID, intQuery(c, "days", model.DefaultRollupDays))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "statistics unavailable, retry later"})
		return
	}
	if rows == nil {
		rows = []model.DailyStatistic{}
	}
	c.JSON(http.StatusOK, gin.H{"statistics": rows})
}

// requestClientIP resolves the submitting client's IP: the first entry of
// X-Forwarded-For when present, otherwise the transport peer address.
func requestClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// pathID parses the :id path parameter, writing a 400 on failure.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
