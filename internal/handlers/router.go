package handlers

import (
	"net/http"
	"time"

	"cep-locator/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RouterOptions reúne o que é comum aos dois serviços
type RouterOptions struct {
	Log            *zap.Logger
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewLookupRouter monta as rotas do serviço de busca de endereços
func NewLookupRouter(svc AddressLookup, maps MapRenderer, opts RouterOptions) *gin.Engine {
	r := newEngine(opts)

	r.GET("/health", HandleHealthCheck)
	r.GET("/states", HandleStates)
	r.GET("/cep/:cep", HandleCEPLookup(svc))
	r.GET("/addresses", HandleAddressSearch(svc))
	r.POST("/search", HandleSearch(svc))
	r.POST("/select", HandleSelect(maps))
	return r
}

// NewMapRouter monta as rotas do serviço de mapa
func NewMapRouter(svc MapBuilder, opts RouterOptions) *gin.Engine {
	r := newEngine(opts)

	r.GET("/health", HandleHealthCheck)
	r.POST("/map", HandleMap(svc))
	r.POST("/map/marker", HandleMarkerMove(svc))
	return r
}

func newEngine(opts RouterOptions) *gin.Engine {
	RegisterValidators()

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		r.Use(middleware.NewIPRateLimiter(rate.Limit(opts.RateLimitRPS), burst, log).Middleware())
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
