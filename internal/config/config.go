// Package config carrega a configuração dos serviços a partir de variáveis de ambiente.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa a configuração dos dois serviços e da CLI
type Config struct {
	Env            string
	Port           string
	ZipkinURL      string
	ViaCEPURL      string
	MapServiceURL  string
	MapboxToken    string
	MapboxURL      string
	NominatimURL   string
	Geocoder       string
	MapStyle       string
	MapZoom        float64
	RedisURL       string
	CacheTTL       time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
	TestMode       bool
	HTTPTimeout    time.Duration
}

// Load lê o .env (se existir) e depois as variáveis de ambiente.
// defaultPort é usado quando PORT não está definida.
func Load(defaultPort string) Config {
	// .env é opcional
	_ = godotenv.Load()

	return Config{
		Env:            getEnv("ENV", "production"),
		Port:           getEnv("PORT", defaultPort),
		ZipkinURL:      getEnv("ZIPKIN_URL", "http://zipkin:9411/api/v2/spans"),
		ViaCEPURL:      strings.TrimRight(getEnv("VIACEP_URL", "https://viacep.com.br/ws"), "/"),
		MapServiceURL:  strings.TrimRight(getEnv("MAP_SERVICE_URL", "http://mapview:8082"), "/"),
		MapboxToken:    os.Getenv("MAPBOX_TOKEN"),
		MapboxURL:      strings.TrimRight(getEnv("MAPBOX_URL", "https://api.mapbox.com"), "/"),
		NominatimURL:   getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		Geocoder:       strings.ToLower(getEnv("GEOCODER", "auto")),
		MapStyle:       getEnv("MAP_STYLE", "mapbox://styles/mapbox/streets-v11"),
		MapZoom:        getFloat("MAP_ZOOM", 15),
		RedisURL:       os.Getenv("REDIS_URL"),
		CacheTTL:       getDuration("CACHE_TTL", 24*time.Hour),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 20),
		CORSOrigins:    getList("CORS_ORIGINS"),
		TestMode:       getBool("TEST_MODE", false),
		HTTPTimeout:    getDuration("HTTP_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
