package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	pg "reptile-husbandry/internal/adapters/storage/postgres"
	"reptile-husbandry/internal/domain/sessions"
	"reptile-husbandry/internal/platform/logger"
	"reptile-husbandry/internal/router"
)

// @title Reptile Husbandry API
// @version 1.0
// @description REST API para el tracking de husbandry de reptiles: animales, alimentaciones, mediciones y reminders.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var db *sql.DB
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		opened, err := pg.Open(dsn)
		if err != nil {
			log.Error("db open failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		db = opened
		defer db.Close()

		if strings.EqualFold(os.Getenv("MIGRATE_ON_START"), "true") {
			if err := pg.RunMigrations(db); err != nil {
				log.Error("migrations failed", map[string]any{"err": err.Error()})
				os.Exit(1)
			}
			log.Info("migrations applied", nil)
		}
	} else {
		log.Warn("DB_DSN vacío, usando storage in-memory", nil)
	}

	app := router.Build(router.Options{DB: db})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// purga periódica de sesiones vencidas
	janitor := sessions.NewJanitor(app.Sessions, sessions.PurgeIntervalFromEnv(), log)
	go janitor.Run(ctx)

	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("starting server", map[string]any{"addr": addr})

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", map[string]any{"err": err.Error()})
		}
	}
}
