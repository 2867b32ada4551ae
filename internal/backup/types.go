package backup

import (
	"context"
	"strings"
	"time"
)

// Config controls periodic database snapshots.
type Config struct {
	Enabled   bool
	Interval  time.Duration
	LocalDir  string
	KeepLast  int
	BucketURL string

	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3SessionToken string
	S3UseSSL       bool
}

// uploadEnabled reports whether this config asks for remote uploads at all.
func (c Config) uploadEnabled() bool {
	return strings.TrimSpace(c.BucketURL) != ""
}

// s3Config projects the flat backup config onto the uploader's settings.
func (c Config) s3Config() S3Config {
	return S3Config{
		BucketURL:    c.BucketURL,
		Endpoint:     c.S3Endpoint,
		Region:       c.S3Region,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		SessionToken: c.S3SessionToken,
		UseSSL:       c.S3UseSSL,
	}
}

// Snapshotter is the minimal snapshot contract the Manager needs from the store.
type Snapshotter interface {
	DBPath() string
	SnapshotTo(dstPath string) error
}

// Uploader ships one snapshot file to remote storage.
type Uploader interface {
	UploadFile(ctx context.Context, localPath string) error
}
