package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cep-locator/internal/config"
	"cep-locator/internal/handlers"
	"cep-locator/internal/logger"
	"cep-locator/internal/server"
	"cep-locator/internal/services"
	"cep-locator/internal/tracing"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load("8082")

	log := logger.Must(cfg.Env, false)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializar o tracer
	cleanup, err := tracing.Init("mapview", cfg.ZipkinURL, log)
	if err != nil {
		log.Fatal("Erro ao iniciar o tracer", zap.Error(err))
	}
	defer cleanup()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	geocoder := services.NewGeocoder(services.GeocoderOptions{
		Kind:         cfg.Geocoder,
		TestMode:     cfg.TestMode,
		MapboxURL:    cfg.MapboxURL,
		MapboxToken:  cfg.MapboxToken,
		NominatimURL: cfg.NominatimURL,
	}, httpClient, log)

	maps := services.NewMapService(geocoder, services.MapOptions{
		Style:       cfg.MapStyle,
		Zoom:        cfg.MapZoom,
		MapboxToken: cfg.MapboxToken,
		MapboxURL:   cfg.MapboxURL,
	}, log)

	router := handlers.NewMapRouter(maps, handlers.RouterOptions{
		Log:            log,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	log.Info("Serviço de mapa iniciado",
		zap.String("port", cfg.Port),
		zap.String("geocoder", cfg.Geocoder),
		zap.Bool("test_mode", cfg.TestMode),
		zap.Bool("map_available", cfg.MapboxToken != ""))
	if err := server.Run(ctx, ":"+cfg.Port, router, log); err != nil {
		log.Fatal("Erro no servidor", zap.Error(err))
	}
}
