package model

// SubmissionRequest is the wire shape of one ingestion request. It is the
// transport contract shared by the HTTP and TCP ingest surfaces.
type SubmissionRequest struct {
	APIKey    string `json:"apiKey"`
	ServerID  int64  `json:"serverId"`
	ClientIP  string `json:"clientIP"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Level     string `json:"level"`
	Source    string `json:"source"`
	Message   string `json:"message"`
	Metadata  string `json:"metadata"`
	Tags      string `json:"tags"`
}

// Submission is one ingestion request with the transport-level peer address
// resolved. peerIP is used only when the caller did not name a client IP.
func (r SubmissionRequest) Submission(peerIP string) Submission {
	clientIP := r.ClientIP
	if clientIP == "" {
		clientIP = peerIP
	}
	return Submission{
		APIKey:    r.APIKey,
		ServerID:  r.ServerID,
		ClientIP:  clientIP,
		Timestamp: r.Timestamp,
		Level:     r.Level,
		Source:    r.Source,
		Message:   r.Message,
		Metadata:  r.Metadata,
		Tags:      r.Tags,
	}
}

// Submission carries one log entry toward the ingestion gateway.
type Submission struct {
	APIKey    string
	ServerID  int64
	ClientIP  string
	Timestamp int64 // 0 = receipt time
	Level     string
	Source    string
	Message   string
	Metadata  string
	Tags      string
}
