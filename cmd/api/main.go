package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"pet-adoption-api/internal/adapters/media/s3store"
	"pet-adoption-api/internal/adapters/storage/postgres"
	"pet-adoption-api/internal/platform/config"
	"pet-adoption-api/internal/platform/logger"
	mediaport "pet-adoption-api/internal/ports/media"
	"pet-adoption-api/internal/router"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	// Sin secreto no hay guard que valga: misconfiguración fatal,
	// salvo en dev mode donde se genera uno efímero.
	secret := cfg.JWTSecret
	if secret == "" {
		if !cfg.DevMode {
			logg.Fatal("JWT_SECRET is required (set DEV_MODE=true to run without one)")
		}
		secret = randomSecret()
		logg.Warn("JWT_SECRET not set, using a generated secret; tokens won't survive a restart")
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = postgres.Open(cfg.DBDSN)
		if err != nil {
			logg.Fatal("postgres connection failed", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
	} else {
		logg.Warn("DB_DSN not set, using in-memory repositories")
	}

	var uploader mediaport.Uploader
	if cfg.S3Bucket != "" {
		uploader, err = s3store.New(context.Background(), s3store.Config{
			Bucket: cfg.S3Bucket,
			Region: cfg.S3Region,
		})
		if err != nil {
			logg.Fatal("s3 setup failed", zap.Error(err))
		}
	} else {
		logg.Warn("S3_BUCKET not set, keeping uploads in memory")
	}

	r := router.NewRouter(router.Options{
		JWTSecret:   secret,
		DB:          db,
		Uploader:    uploader,
		MediaFolder: cfg.S3Prefix,
		Log:         logg,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		// holgura para subidas multipart
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logg.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal("server error", zap.Error(err))
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("generating dev secret: %v", err)
	}
	return hex.EncodeToString(b)
}
