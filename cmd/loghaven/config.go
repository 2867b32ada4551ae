package main

import (
	"time"
)

const (
	defaultBindHost           = "0.0.0.0"
	defaultAPIPort            = 8080
	defaultTCPPort            = 4010
	defaultQueryTimeout       = 30 * time.Second
	defaultMaxConcurrentReads = 8
	defaultLogRetention       = 30 // days, 0 = disabled
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	APIPort            int           `mapstructure:"api-port"`
	APIAddr            string        `mapstructure:"api-addr"`
	ReleaseMode        bool          `mapstructure:"release-mode"`
	CORSOrigins        []string      `mapstructure:"cors-origins"`
	TCPEnabled         bool          `mapstructure:"tcp-enabled"`
	TCPPort            int           `mapstructure:"tcp-port"`
	TCPAddr            string        `mapstructure:"tcp-addr"`
	DBPath             string        `mapstructure:"db-path"`
	QueryTimeout       time.Duration `mapstructure:"query-timeout"`
	MaxConcurrentReads int           `mapstructure:"max-concurrent-queries"`
	PermissiveOrigin   bool          `mapstructure:"permissive-origin"`
	LogRetention       int           `mapstructure:"log-retention"`

	BackupEnabled        bool          `mapstructure:"backup-enabled"`
	BackupInterval       time.Duration `mapstructure:"backup-interval"`
	BackupLocalDir       string        `mapstructure:"backup-local-dir"`
	BackupKeepLast       int           `mapstructure:"backup-keep-last"`
	BackupBucketURL      string        `mapstructure:"backup-bucket-url"`
	BackupS3Endpoint     string        `mapstructure:"backup-s3-endpoint"`
	BackupS3Region       string        `mapstructure:"backup-s3-region"`
	BackupS3AccessKey    string        `mapstructure:"backup-s3-access-key"`
	BackupS3SecretKey    string        `mapstructure:"backup-s3-secret-key"`
	BackupS3SessionToken string        `mapstructure:"backup-s3-session-token"`
	BackupS3UseSSL       bool          `mapstructure:"backup-s3-use-ssl"`

	ConfigPath string `mapstructure:"-"` // not from config file
}
