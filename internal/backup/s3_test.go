package backup

import (
	"strings"
	"testing"
	"time"
)

func TestParseS3BucketURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantErr   bool
		wantBkt   string
		wantPre   string
		errSubstr string
	}{
		{
			name:    "bucket only",
			raw:     "s3://my-bucket",
			wantBkt: "my-bucket",
			wantPre: "",
		},
		{
			name:    "bucket with prefix",
			raw:     "s3://my-bucket/loghaven/backups",
			wantBkt: "my-bucket",
			wantPre: "loghaven/backups",
		},
		{
			name:      "invalid scheme",
			raw:       "https://my-bucket/loghaven",
			wantErr:   true,
			errSubstr: "s3:// scheme",
		},
		{
			name:      "missing bucket",
			raw:       "s3:///loghaven",
			wantErr:   true,
			errSubstr: "missing bucket",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotBkt, gotPre, err := parseS3BucketURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Fatalf("err = %q, want substring %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseS3BucketURL error: %v", err)
			}
			if gotBkt != tt.wantBkt {
				t.Fatalf("bucket = %q, want %q", gotBkt, tt.wantBkt)
			}
			if gotPre != tt.wantPre {
				t.Fatalf("prefix = %q, want %q", gotPre, tt.wantPre)
			}
		})
	}
}

func TestObjectKeyFor(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)

	got := objectKeyFor("loghaven/backups", "/var/backups/loghaven-20260829-030000.duckdb", now)
	want := "loghaven/backups/2026/08/loghaven-20260829-030000.duckdb"
	if got != want {
		t.Errorf("objectKeyFor with prefix = %q, want %q", got, want)
	}

	got = objectKeyFor("", "/var/backups/loghaven-20260829-030000.duckdb", now)
	want = "2026/08/loghaven-20260829-030000.duckdb"
	if got != want {
		t.Errorf("objectKeyFor without prefix = %q, want %q", got, want)
	}
}

func TestConfigS3Projection(t *testing.T) {
	t.Parallel()

	cfg := Config{
		BucketURL:   "s3://my-bucket/loghaven",
		S3Endpoint:  "minio.internal:9000",
		S3Region:    "eu-central-1",
		S3AccessKey: "ak",
		S3SecretKey: "sk",
		S3UseSSL:    true,
	}
	if !cfg.uploadEnabled() {
		t.Fatal("uploadEnabled = false with a bucket URL set")
	}
	s3 := cfg.s3Config()
	if s3.BucketURL != cfg.BucketURL || s3.Region != "eu-central-1" || !s3.UseSSL {
		t.Errorf("s3Config = %+v, fields did not carry over", s3)
	}

	if (Config{LocalDir: "/tmp/backups"}).uploadEnabled() {
		t.Error("uploadEnabled = true without a bucket URL")
	}
}

func TestNewS3Uploader_MissingCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewS3Uploader(S3Config{
		BucketURL: "s3://my-bucket/loghaven",
		Endpoint:  "s3.amazonaws.com",
		UseSSL:    true,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
