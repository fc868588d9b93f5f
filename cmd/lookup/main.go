package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cep-locator/internal/cache"
	"cep-locator/internal/client"
	"cep-locator/internal/config"
	"cep-locator/internal/handlers"
	"cep-locator/internal/logger"
	"cep-locator/internal/server"
	"cep-locator/internal/services"
	"cep-locator/internal/tracing"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load("8081")

	log := logger.Must(cfg.Env, false)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializar o tracer
	cleanup, err := tracing.Init("lookup", cfg.ZipkinURL, log)
	if err != nil {
		log.Fatal("Erro ao iniciar o tracer", zap.Error(err))
	}
	defer cleanup()

	// Cache opcional das consultas ao ViaCEP
	var store cache.Store = cache.Nop{}
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Warn("Redis indisponível, seguindo sem cache", zap.Error(err))
		} else {
			defer redisStore.Close()
			store = redisStore
			log.Info("Cache Redis habilitado", zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	addresses := services.NewAddressService(cfg.ViaCEPURL, httpClient, store, log)
	mapClient := client.NewMapClient(cfg.MapServiceURL, nil)

	router := handlers.NewLookupRouter(addresses, mapClient, handlers.RouterOptions{
		Log:            log,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	log.Info("Serviço de busca iniciado",
		zap.String("port", cfg.Port),
		zap.String("viacep", cfg.ViaCEPURL),
		zap.String("map_service", cfg.MapServiceURL))
	if err := server.Run(ctx, ":"+cfg.Port, router, log); err != nil {
		log.Fatal("Erro no servidor", zap.Error(err))
	}
}
