// cmd/autoendpoint/main.go
//
// Endpoint service entry point.
//
// Startup life-cycle
// ------------------
//
//  1. Parse CLI flags (--config, --log-dir).
//
//  2. Load optional .env so local development can seed AUTOEND_* vars.
//
//  3. Resolve settings once: defaults → optional file → environment.
//     Resolution failure is fatal; diagnostics were already printed.
//
//  4. Start the structured logger (encoder per human_logs) and log the
//     startup banner.
//
//  5. Open the MySQL pool and the statsd statter.
//
//  6. Serve the operational endpoints until SIGINT/SIGTERM, then drain.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-services/autoendpoint/internal/database"
	"github.com/mozilla-services/autoendpoint/internal/logger"
	"github.com/mozilla-services/autoendpoint/internal/metrics"
	"github.com/mozilla-services/autoendpoint/internal/server"
	"github.com/mozilla-services/autoendpoint/internal/settings"
)

// Build metadata, injected with -ldflags at release time.
var (
	version = "dev"
	commit  = "unknown"
	build   = "unknown"
)

func main() {
	app := kingpin.New("autoendpoint", "Push notification endpoint service")
	configFile := app.Flag("config", "Path to the settings file (YAML)").String()
	logDir := app.Flag("log-dir", "Directory for rotating JSON logs (empty = stdout only)").String()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	//
	// ── 1.  Settings resolution (exactly once) ──────────────────────────
	//
	s, err := settings.Resolve(*configFile)
	if err != nil {
		// Resolve already reported the detail to console and log.
		log.Fatalf("settings: %v", err)
	}

	logOut, err := logger.New(s, *logDir)
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	logOut.Infow("starting autoendpoint", "banner", s.Banner(), "version", version)

	//
	// ── 2.  Database pool ───────────────────────────────────────────────
	//
	db, err := database.Open(s)
	if err != nil {
		logOut.Fatalw("connect database", "err", err)
	}
	defer db.Close()
	logOut.Infow("database online")

	//
	// ── 3.  Metrics ─────────────────────────────────────────────────────
	//
	statter, err := metrics.New(s)
	if err != nil {
		logOut.Fatalw("start statsd", "err", err)
	}
	defer statter.Close()
	_ = statter.Inc("startup", 1, 1.0)

	//
	// ── 4.  HTTP server with graceful shutdown ──────────────────────────
	//
	addr := net.JoinHostPort(s.Host, strconv.Itoa(int(s.Port)))
	srv := server.New(addr, server.Router(db, server.VersionInfo{
		Source:  "https://github.com/mozilla-services/autoendpoint",
		Version: version,
		Commit:  commit,
		Build:   build,
	}))

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		logOut.Infow("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return nil
		case sig := <-quit:
			logOut.Infow("shutdown signal received", "signal", sig.String())
		}
		drain, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(drain)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("server error", "err", err)
	}
	logOut.Infow("shutdown complete")
}
