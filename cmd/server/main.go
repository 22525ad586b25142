package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"shareit/internal/api"
	"shareit/internal/cache"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/logging"
	"shareit/internal/repository"
	"shareit/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	db, err := database.Open(cfg.Server.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}

	var searchCache *cache.SearchCache
	if cfg.Server.Redis.Enabled {
		client := cache.NewRedisClient(cfg.Server.Redis)
		ttl := time.Duration(cfg.Server.Redis.CacheTTLSeconds) * time.Second
		searchCache = cache.NewSearchCache(client, ttl, logger)
		logger.Info().Str("address", cfg.Server.Redis.Address).Msg("search cache enabled")
	}

	users := repository.NewUserRepository(db)
	items := repository.NewItemRepository(db)
	bookings := repository.NewBookingRepository(db)
	comments := repository.NewCommentRepository(db)
	requests := repository.NewRequestRepository(db)

	userSvc := service.NewUserService(users, logger)
	itemSvc := service.NewItemService(items, users, bookings, comments, requests, searchCache, logger)
	bookingSvc := service.NewBookingService(bookings, items, users, logger)
	requestSvc := service.NewRequestService(requests, items, users, logger)

	h := api.NewHandler(userSvc, itemSvc, bookingSvc, requestSvc, db, logger)
	r := api.NewRouter(h, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server starting")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
