package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/cache"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/config"
	dbpkg "github.com/ClinicaVidaNova/clinic-scheduler/internal/db"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/middleware"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/routes"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/storage"
)

func main() {

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb, err := cache.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	reportCache := cache.New(rdb, 5*time.Minute)

	uploader, err := storage.NewUploader(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure object storage")
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, uploader, reportCache)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
