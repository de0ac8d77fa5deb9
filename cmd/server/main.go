package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"kitbox/internal/adapters/api"
	web "kitbox/internal/adapters/http"
	"kitbox/internal/adapters/http/perf"
	"kitbox/internal/adapters/storage"
	"kitbox/internal/adapters/storage/credential"
	"kitbox/internal/application/orchestrators"
	"kitbox/internal/application/views"
	"kitbox/internal/config"
	"kitbox/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// credentialPurgeInterval is how often idle stored logins are swept.
const credentialPurgeInterval = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logging.Setup(cfg.Env)

	if err := run(cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		return err
	}
	schema, err := storage.SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	sealer, err := credential.NewSealer([]byte(cfg.CredentialSecret))
	if err != nil {
		return err
	}
	creds := credential.NewSQLiteStore(timedDB, sealer)

	slots, err := views.LoadSlotCatalog(cfg.SlotCatalogPath)
	if err != nil {
		return err
	}

	stopPurge := orchestrators.StartCredentialPurgeScheduler(ctx, orchestrators.PurgeCredentialsDeps{
		Store: creds,
		TTL:   cfg.SessionTTL,
		Now:   time.Now,
	}, credentialPurgeInterval)
	defer stopPurge()

	handler, stopMux := web.NewMux(web.Deps{
		Client:      api.NewClient(cfg.APIURL, cfg.APITimeout, collector),
		Credentials: creds,
		Collector:   collector,
		Slots:       slots,
		DB:          timedDB,
		CSRFKey:     cfg.CSRFKey,
		Secure:      cfg.IsProduction(),
		RateLimit:   cfg.RateLimit,
	})
	defer stopMux()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.APITimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"api_url", cfg.APIURL,
			"schema", schema,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
