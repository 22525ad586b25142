package main

import (
	"flag"
	"fmt"
	"log"

	"shareit/internal/config"
	"shareit/internal/gateway"
	"shareit/internal/logging"
	"shareit/internal/metrics"
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

	metrics.Register()

	r := gateway.NewRouter(cfg.Gateway, logger)

	addr := fmt.Sprintf(":%d", cfg.Gateway.Port)
	logger.Info().Str("addr", addr).Str("backend", cfg.Gateway.ServerURL).Msg("gateway starting")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("gateway stopped")
	}
}
