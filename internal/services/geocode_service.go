package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cep-locator/internal/apperr"
	"cep-locator/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	MsgLocationNotFound     = "location not found"
	MsgGeocodeUnavailable   = "error fetching location"
	nominatimUserAgent      = "cep-locator/0.2"
	nominatimRequestsPerSec = 1
)

// Geocoder converte um endereço em coordenadas
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Point, error)
}

// MapboxGeocoder usa a API de geocodificação do Mapbox
type MapboxGeocoder struct {
	baseURL string
	token   string
	client  *http.Client
	tracer  trace.Tracer
	log     *zap.Logger
}

// NewMapboxGeocoder cria o geocodificador do Mapbox
func NewMapboxGeocoder(baseURL, token string, client *http.Client, log *zap.Logger) *MapboxGeocoder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MapboxGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
		tracer:  otel.GetTracerProvider().Tracer("mapbox-geocoder"),
		log:     log,
	}
}

type mapboxResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"` // [lon, lat]
	} `json:"features"`
}

// Geocode devolve o centro da primeira feature encontrada
func (g *MapboxGeocoder) Geocode(ctx context.Context, address string) (*models.Point, error) {
	ctx, span := g.tracer.Start(ctx, "mapbox-geocode")
	defer span.End()
	span.SetAttributes(attribute.String("address", address))

	params := url.Values{}
	params.Set("access_token", g.token)
	params.Set("limit", "1")
	params.Set("country", "br")
	params.Set("language", "pt")
	reqURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", g.baseURL, url.PathEscape(address), params.Encode())

	var body mapboxResponse
	if err := getJSON(ctx, g.client, reqURL, nil, &body); err != nil {
		g.log.Warn("Erro ao consultar Mapbox", zap.String("address", address), zap.Error(err))
		recordError(span, err)
		return nil, apperr.Unavailable(MsgGeocodeUnavailable, err).WithOp("MapboxGeocoder")
	}

	if len(body.Features) == 0 || len(body.Features[0].Center) < 2 {
		return nil, apperr.NotFound(MsgLocationNotFound)
	}

	center := body.Features[0].Center
	point := &models.Point{Lat: center[1], Lon: center[0]}
	span.SetAttributes(attribute.Float64("lat", point.Lat), attribute.Float64("lon", point.Lon))
	return point, nil
}

// NominatimGeocoder usa a busca do OpenStreetMap, sem chave de acesso.
// A política de uso do OSM limita a uma requisição por segundo.
type NominatimGeocoder struct {
	searchURL string
	client    *http.Client
	limiter   *rate.Limiter
	tracer    trace.Tracer
	log       *zap.Logger
}

// NewNominatimGeocoder cria o geocodificador do OSM com limite de uma requisição por segundo
func NewNominatimGeocoder(searchURL string, client *http.Client, log *zap.Logger) *NominatimGeocoder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NominatimGeocoder{
		searchURL: searchURL,
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(nominatimRequestsPerSec), 1),
		tracer:    otel.GetTracerProvider().Tracer("nominatim-geocoder"),
		log:       log,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode aguarda o limitador e devolve o primeiro resultado do Nominatim
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*models.Point, error) {
	ctx, span := g.tracer.Start(ctx, "nominatim-geocode")
	defer span.End()
	span.SetAttributes(attribute.String("address", address))

	if err := g.limiter.Wait(ctx); err != nil {
		recordError(span, err)
		return nil, apperr.Unavailable(MsgGeocodeUnavailable, err).WithOp("NominatimGeocoder")
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "br")
	reqURL := g.searchURL + "?" + params.Encode()

	var results []nominatimResult
	headers := map[string]string{"User-Agent": nominatimUserAgent}
	if err := getJSON(ctx, g.client, reqURL, headers, &results); err != nil {
		g.log.Warn("Erro ao consultar Nominatim", zap.String("address", address), zap.Error(err))
		recordError(span, err)
		return nil, apperr.Unavailable(MsgGeocodeUnavailable, err).WithOp("NominatimGeocoder")
	}
	if len(results) == 0 {
		return nil, apperr.NotFound(MsgLocationNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, apperr.Unavailable(MsgGeocodeUnavailable, fmt.Errorf("invalid latitude %q", results[0].Lat))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, apperr.Unavailable(MsgGeocodeUnavailable, fmt.Errorf("invalid longitude %q", results[0].Lon))
	}

	span.SetAttributes(attribute.Float64("lat", lat), attribute.Float64("lon", lon))
	return &models.Point{Lat: lat, Lon: lon}, nil
}

// StaticGeocoder sempre devolve o mesmo ponto; usado em modo de teste
type StaticGeocoder struct {
	Point models.Point
}

// Praça da Sé, marco zero de São Paulo
var DefaultTestPoint = models.Point{Lat: -23.5503, Lon: -46.6339}

// Geocode ignora o endereço e devolve o ponto fixo
func (g StaticGeocoder) Geocode(ctx context.Context, address string) (*models.Point, error) {
	p := g.Point
	return &p, nil
}

// ChainGeocoder tenta cada geocodificador em ordem e devolve o primeiro acerto
type ChainGeocoder struct {
	geocoders []Geocoder
	log       *zap.Logger
}

// NewChainGeocoder encadeia os geocodificadores na ordem recebida
func NewChainGeocoder(log *zap.Logger, geocoders ...Geocoder) *ChainGeocoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChainGeocoder{geocoders: geocoders, log: log}
}

// Geocode devolve o primeiro acerto ou o último erro
func (c *ChainGeocoder) Geocode(ctx context.Context, address string) (*models.Point, error) {
	lastErr := error(apperr.NotFound(MsgLocationNotFound))
	for i, g := range c.geocoders {
		point, err := g.Geocode(ctx, address)
		if err == nil {
			return point, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		c.log.Debug("Geocodificador falhou, tentando o próximo", zap.Int("index", i), zap.Error(err))
		lastErr = err
	}
	return nil, lastErr
}

// Tipos de geocodificador aceitos em GEOCODER
const (
	GeocoderAuto      = "auto"
	GeocoderMapbox    = "mapbox"
	GeocoderNominatim = "nominatim"
)

// GeocoderOptions descreve qual geocodificador montar
type GeocoderOptions struct {
	Kind         string
	TestMode     bool
	MapboxURL    string
	MapboxToken  string
	NominatimURL string
}

// NewGeocoder escolhe o geocodificador conforme a configuração.
// Em modo de teste devolve sempre DefaultTestPoint; em "auto" usa o Mapbox
// quando há token e cai para o Nominatim.
func NewGeocoder(opts GeocoderOptions, client *http.Client, log *zap.Logger) Geocoder {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.TestMode {
		return StaticGeocoder{Point: DefaultTestPoint}
	}

	nominatim := NewNominatimGeocoder(opts.NominatimURL, client, log)
	switch opts.Kind {
	case GeocoderMapbox:
		return NewMapboxGeocoder(opts.MapboxURL, opts.MapboxToken, client, log)
	case GeocoderNominatim:
		return nominatim
	}
	if opts.MapboxToken == "" {
		return nominatim
	}
	return NewChainGeocoder(log, NewMapboxGeocoder(opts.MapboxURL, opts.MapboxToken, client, log), nominatim)
}

func getJSON(ctx context.Context, client *http.Client, reqURL string, headers map[string]string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
