// cmd/web/main.go
//
// TechHub: HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file, then conf/.env via config.Load).
//
//  2. Load and validate configuration.
//
//  3. Start the daily rotating logger (tees to console when running in a
//     TTY).
//
//  4. Resolve `vault:` references when configuration holds any.
//
//  5. Open the optional GeoLite2 database.
//
//  6. Build the shared services: the outbound Submitter, the view engine,
//     and the alias cache.
//
//  7. Build the root router.  Every component registered through the blank
//     imports below is initialised and mounted here.
//
//  8. Serve until SIGINT or SIGTERM, then drain in-flight requests.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jkkniu-techhub/techhub/internal/component"
	"github.com/jkkniu-techhub/techhub/internal/config"
	"github.com/jkkniu-techhub/techhub/internal/form"
	"github.com/jkkniu-techhub/techhub/internal/logger"
	"github.com/jkkniu-techhub/techhub/internal/message"
	"github.com/jkkniu-techhub/techhub/internal/requestinfo"
	"github.com/jkkniu-techhub/techhub/internal/routing"
	"github.com/jkkniu-techhub/techhub/internal/server"
	"github.com/jkkniu-techhub/techhub/internal/vault"
	"github.com/jkkniu-techhub/techhub/internal/view"

	_ "github.com/jkkniu-techhub/techhub/components/debug"
	_ "github.com/jkkniu-techhub/techhub/components/pages"
	_ "github.com/jkkniu-techhub/techhub/components/registration"
)

const (
	serverEnvPath   = "/usr/local/etc/techhub/global.env"
	shutdownTimeout = 20 * time.Second
)

// loadEnv prefers the jail-wide env file when present.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
	}
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Configuration and logger ────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logDir := cfg.Log.Dir
	if !filepath.IsAbs(logDir) {
		logDir = filepath.Join(cfg.Paths.Root, logDir)
	}
	zl, err := logger.New(logger.Options{Dir: logDir, Tee: runningInTTY(), Level: cfg.Log.Level})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	//
	// ── 2.  Secrets ─────────────────────────────────────────────────────
	//
	if cfg.NeedsVault() {
		vc, err := vault.New(ctx, zl, vault.Options{CacheTTL: time.Hour, Renew: true})
		if err != nil {
			zl.Fatalw("vault client", "err", err)
		}
		if err := cfg.ResolveSecrets(ctx, vc); err != nil {
			zl.Fatalw("resolve secrets", "err", err)
		}
		zl.Infow("secrets resolved from vault")
	}

	//
	// ── 3.  Request enrichment ──────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		zl.Warnw("geo database unavailable, continuing without", "path", cfg.Geo.DBPath, "err", err)
	}
	defer func() { _ = requestinfo.CloseGeo() }()

	//
	// ── 4.  Shared services and router ──────────────────────────────────
	//
	overrideDir := cfg.View.OverrideDir
	if overrideDir != "" && !filepath.IsAbs(overrideDir) {
		overrideDir = filepath.Join(cfg.Paths.Root, overrideDir)
	}
	deps := component.Deps{
		Config:     cfg,
		View:       view.New(view.Options{OverrideDir: overrideDir, NoCache: cfg.Debug}),
		Dispatcher: form.NewSubmitter(message.NewSender(nil), cfg.Forms.SubmitTimeout),
	}
	aliases := routing.NewAliasCache(cfg.Routes.Aliases)

	handler, err := server.NewRouter(deps, aliases)
	if err != nil {
		zl.Fatalw("build router", "err", err)
	}
	zl.Infow("router ready",
		"forms", len(form.All()),
		"aliases", aliases.Len(),
		"route_mode", cfg.Routes.Mode)

	//
	// ── 5.  Serve and drain ─────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP, handler)
	errCh := make(chan error, 1)
	go func() {
		zl.Infow("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			zl.Fatalw("http server", "err", err)
		}
	case <-ctx.Done():
		zl.Infow("shutdown signal received")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			zl.Errorw("graceful shutdown", "err", err)
		}
	}
}
