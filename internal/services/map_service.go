package services

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"cep-locator/internal/apperr"
	"cep-locator/internal/models"

	"github.com/umahmood/haversine"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultMapStyle = "mapbox://styles/mapbox/streets-v11"
	DefaultMapZoom  = 15.0

	MsgAddressRequired   = "address is required"
	MsgMapUnavailable    = "map view unavailable, use the mobile app to see the map"
	MsgInvalidCoordinate = "invalid coordinate"
	MsgOriginRequired    = "marker origin is required"

	markerAnchor    = "bottom"
	markerColor     = "1e3c72"
	staticImageSize = "600x400"
)

// MapService monta a visualização do mapa para um endereço escolhido
type MapService struct {
	geocoder   Geocoder
	style      string
	zoom       float64
	token      string
	staticBase string
	tracer     trace.Tracer
	log        *zap.Logger
}

// MapOptions configura estilo, zoom e acesso às imagens estáticas do Mapbox
type MapOptions struct {
	Style       string
	Zoom        float64
	MapboxToken string
	MapboxURL   string
}

// NewMapService cria o serviço de mapa; estilo e zoom vazios usam os padrões
func NewMapService(geocoder Geocoder, opts MapOptions, log *zap.Logger) *MapService {
	if opts.Style == "" {
		opts.Style = DefaultMapStyle
	}
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultMapZoom
	}
	if opts.MapboxURL == "" {
		opts.MapboxURL = "https://api.mapbox.com"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MapService{
		geocoder:   geocoder,
		style:      opts.Style,
		zoom:       opts.Zoom,
		token:      opts.MapboxToken,
		staticBase: strings.TrimRight(opts.MapboxURL, "/"),
		tracer:     otel.GetTracerProvider().Tracer("map-service"),
		log:        log,
	}
}

// Render geocodifica o endereço e devolve centro, marcador e GeoJSON.
// Sem token do Mapbox o mapa é marcado como indisponível, mas as coordenadas são mantidas.
func (s *MapService) Render(ctx context.Context, req models.MapRequest) (*models.MapView, error) {
	ctx, span := s.tracer.Start(ctx, "render-map")
	defer span.End()

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, apperr.Validation(MsgAddressRequired)
	}
	span.SetAttributes(attribute.String("address", address))

	point, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	view := &models.MapView{
		Address: address,
		Data:    req.Data,
		Center:  *point,
		Zoom:    s.zoom,
		Style:   s.style,
		Marker: models.Marker{
			Position:  *point,
			Anchor:    markerAnchor,
			Draggable: req.Draggable,
		},
		Available: s.token != "",
		GeoJSON: models.FeatureCollection{
			Type:     "FeatureCollection",
			Features: []models.Feature{models.PointFeature(*point, addressCard(address, req.Data))},
		},
	}

	if view.Available {
		view.StaticImageURL = s.staticImageURL(*point)
	} else {
		view.Message = MsgMapUnavailable
	}

	s.log.Debug("Mapa montado",
		zap.String("address", address),
		zap.Float64("lat", point.Lat),
		zap.Float64("lon", point.Lon),
		zap.Bool("available", view.Available))
	return view, nil
}

// MoveMarker registra a posição final do marcador arrastado e a distância
// até o ponto geocodificado originalmente
func (s *MapService) MoveMarker(ctx context.Context, req models.MarkerMoveRequest) (*models.MarkerMove, error) {
	_, span := s.tracer.Start(ctx, "move-marker")
	defer span.End()

	if req.Origin == (models.Point{}) {
		return nil, apperr.Validation(MsgOriginRequired)
	}
	if err := req.Origin.Validate(); err != nil {
		return nil, apperr.Validation(MsgInvalidCoordinate).WithDetails(err.Error())
	}
	if err := req.Position.Validate(); err != nil {
		return nil, apperr.Validation(MsgInvalidCoordinate).WithDetails(err.Error())
	}

	_, km := haversine.Distance(
		haversine.Coord{Lat: req.Origin.Lat, Lon: req.Origin.Lon},
		haversine.Coord{Lat: req.Position.Lat, Lon: req.Position.Lon},
	)
	km = math.Round(km*1000) / 1000
	span.SetAttributes(attribute.Float64("distance_km", km))

	return &models.MarkerMove{
		Position:   req.Position,
		Origin:     req.Origin,
		DistanceKm: km,
	}, nil
}

// staticImageURL monta a URL da Static Images API para estilos mapbox://
func (s *MapService) staticImageURL(p models.Point) string {
	stylePath, ok := strings.CutPrefix(s.style, "mapbox://styles/")
	if !ok {
		return ""
	}
	lon := strconv.FormatFloat(p.Lon, 'f', 6, 64)
	lat := strconv.FormatFloat(p.Lat, 'f', 6, 64)
	zoom := strconv.FormatFloat(s.zoom, 'f', -1, 64)

	return fmt.Sprintf("%s/styles/v1/%s/static/pin-l+%s(%s,%s)/%s,%s,%s/%s?access_token=%s",
		s.staticBase, stylePath, markerColor, lon, lat, lon, lat, zoom, staticImageSize, url.QueryEscape(s.token))
}

// addressCard monta as propriedades exibidas junto ao marcador
func addressCard(address string, data *models.Address) map[string]interface{} {
	card := map[string]interface{}{"address": address}
	if data != nil {
		card["cep"] = data.CEP
		card["bairro"] = data.Bairro
		card["cidade"] = data.Localidade
		card["estado"] = data.UF
	}
	return card
}
