package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/loghaven/loghaven/internal/backup"
	"github.com/loghaven/loghaven/internal/duckdb"
	"github.com/loghaven/loghaven/internal/gateway"
	"github.com/loghaven/loghaven/internal/httpserver"
	"github.com/loghaven/loghaven/internal/model"
	"github.com/loghaven/loghaven/internal/search"
	"github.com/loghaven/loghaven/internal/stats"
	"github.com/loghaven/loghaven/internal/tcpserver"
	"golang.org/x/sync/errgroup"
)

// runServer wires the store, gateway and transports together and runs until
// a termination signal arrives.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()
	store.SetMaxConcurrentReads(cfg.MaxConcurrentReads)
	store.PermissiveOrigin = cfg.PermissiveOrigin

	gw := gateway.New(store, store, store, store)
	engine := search.NewEngine(store)
	reporter := stats.NewReporter(store)

	// Retention cleaner for automatic log expiry.
	retentionCleaner := duckdb.NewRetentionCleaner(store, duckdb.RetentionConfig{
		RetentionDays: cfg.LogRetention,
	})
	if retentionCleaner != nil {
		defer retentionCleaner.Stop()
	}

	// Periodic backups when enabled.
	backupManager, err := backup.NewManager(store, backup.Config{
		Enabled:        cfg.BackupEnabled,
		Interval:       cfg.BackupInterval,
		LocalDir:       cfg.BackupLocalDir,
		KeepLast:       cfg.BackupKeepLast,
		BucketURL:      cfg.BackupBucketURL,
		S3Endpoint:     cfg.BackupS3Endpoint,
		S3Region:       cfg.BackupS3Region,
		S3AccessKey:    cfg.BackupS3AccessKey,
		S3SecretKey:    cfg.BackupS3SecretKey,
		S3SessionToken: cfg.BackupS3SessionToken,
		S3UseSSL:       cfg.BackupS3UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backups: %w", err)
	}
	if backupManager != nil {
		defer backupManager.Stop()
	}

	apiServer := httpserver.NewServer(httpserver.Config{
		Addr:           cfg.APIAddr,
		ReleaseMode:    cfg.ReleaseMode,
		AllowedOrigins: cfg.CORSOrigins,
	}, gw, engine, reporter, store)
	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	defer apiServer.Stop()

	var tcpServer *tcpserver.Server
	if cfg.TCPEnabled {
		tcpServer = tcpserver.NewServer(cfg.TCPAddr)
		if err := tcpServer.Start(); err != nil {
			return fmt.Errorf("failed to start TCP ingest server: %w", err)
		}
	}

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg)

	// Use errgroup for concurrent goroutine lifecycle management.
	g, gctx := errgroup.WithContext(ctx)

	if tcpServer != nil {
		g.Go(func() error {
			drainTCPSubmissions(gctx, gw, tcpServer.Envelopes())
			return nil
		})
	}

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	cancel()
	if tcpServer != nil {
		tcpServer.Stop()
	}

	// If we reach here, graceful shutdown succeeded within the deadline.
	// The signal goroutine (if active) dies with the process.
	signal.Stop(sigCh)

	return nil
}

// drainTCPSubmissions feeds TCP-delivered submission lines through the same
// gateway as HTTP ingestion. The envelope's peer IP stands in for the client
// address during origin checks.
func drainTCPSubmissions(ctx context.Context, gw *gateway.Gateway, envelopes <-chan tcpserver.Envelope) {
	for {
		select {
		case env, ok := <-envelopes:
			if !ok {
				return
			}
			var req model.SubmissionRequest
			if err := json.Unmarshal([]byte(env.Line), &req); err != nil {
				log.Printf("tcp ingest: dropping malformed line from %s: %v", env.RemoteIP, err)
				continue
			}
			if err := gw.Ingest(ctx, req.Submission(env.RemoteIP)); err != nil {
				log.Printf("tcp ingest: rejected submission from %s: %v", env.RemoteIP, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "loghaven")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "loghaven.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╦  ╔═╗╔═╗╦ ╦╔═╗╦  ╦╔═╗╔╗╔
    ║  ║ ║║ ╦╠═╣╠═╣╚╗╔╝║╣ ║║║
    ╩═╝╚═╝╚═╝╩ ╩╩ ╩ ╚╝ ╚═╝╝╚╝`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	// Gateway
	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))

	if cfg.TCPEnabled {
		lines = append(lines, fmt.Sprintf("    %s  TCP Ingest     %s", check, cyan.Render(cfg.TCPAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  TCP Ingest     %s", dot, dim.Render("disabled")))
	}

	if cfg.PermissiveOrigin {
		lines = append(lines, fmt.Sprintf("    %s  Origin Policy  %s", check, dim.Render("permissive")))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Origin Policy  %s", check, yellow.Render("strict")))
	}
	lines = append(lines, "")

	// Storage
	lines = append(lines, bold.Render("    Storage"))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("    %s  Database       %s", check, dim.Render(shortenPath(cfg.DBPath))))
	if cfg.BackupEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Snapshots      %s", check, dim.Render(shortenPath(cfg.BackupLocalDir))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Snapshots      %s", dot, dim.Render("disabled")))
	}
	if cfg.LogRetention > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Retention      %s", check, dim.Render(fmt.Sprintf("%d days", cfg.LogRetention))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Retention      %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
