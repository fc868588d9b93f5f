package services

import (
	"context"
	"testing"

	"cep-locator/internal/apperr"
	"cep-locator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var se = &models.Address{CEP: "01001-000", Logradouro: "Praça da Sé", Bairro: "Sé", Localidade: "São Paulo", UF: "SP"}

func TestRenderWithToken(t *testing.T) {
	svc := NewMapService(StaticGeocoder{Point: DefaultTestPoint}, MapOptions{MapboxToken: "pk.test"}, nil)

	view, err := svc.Render(context.Background(), models.MapRequest{Address: se.Label(), Data: se, Draggable: true})
	require.NoError(t, err)

	assert.True(t, view.Available)
	assert.Empty(t, view.Message)
	assert.Equal(t, DefaultTestPoint, view.Center)
	assert.Equal(t, DefaultMapZoom, view.Zoom)
	assert.Equal(t, DefaultMapStyle, view.Style)
	assert.Equal(t, models.Marker{Position: DefaultTestPoint, Anchor: "bottom", Draggable: true}, view.Marker)
	assert.Equal(t,
		"https://api.mapbox.com/styles/v1/mapbox/streets-v11/static/pin-l+1e3c72(-46.633900,-23.550300)/-46.633900,-23.550300,15/600x400?access_token=pk.test",
		view.StaticImageURL)

	require.Len(t, view.GeoJSON.Features, 1)
	f := view.GeoJSON.Features[0]
	assert.Equal(t, "FeatureCollection", view.GeoJSON.Type)
	assert.Equal(t, []float64{DefaultTestPoint.Lon, DefaultTestPoint.Lat}, f.Geometry.Coordinates)
	assert.Equal(t, "01001-000", f.Properties["cep"])
	assert.Equal(t, "Sé", f.Properties["bairro"])
	assert.Equal(t, "São Paulo", f.Properties["cidade"])
	assert.Equal(t, "SP", f.Properties["estado"])
}

func TestRenderWithoutTokenIsUnavailable(t *testing.T) {
	svc := NewMapService(StaticGeocoder{Point: DefaultTestPoint}, MapOptions{Zoom: 12}, nil)

	view, err := svc.Render(context.Background(), models.MapRequest{Address: "Praça da Sé, Sé, São Paulo, SP"})
	require.NoError(t, err)

	assert.False(t, view.Available)
	assert.Equal(t, MsgMapUnavailable, view.Message)
	assert.Empty(t, view.StaticImageURL)
	assert.Equal(t, 12.0, view.Zoom)
	assert.Equal(t, DefaultTestPoint, view.Marker.Position)
	assert.False(t, view.Marker.Draggable)
	assert.Nil(t, view.Data)
}

func TestRenderCustomStyleSkipsStaticImage(t *testing.T) {
	svc := NewMapService(StaticGeocoder{}, MapOptions{MapboxToken: "pk", Style: "https://tiles.example/style.json"}, nil)

	view, err := svc.Render(context.Background(), models.MapRequest{Address: "x"})
	require.NoError(t, err)
	assert.True(t, view.Available)
	assert.Empty(t, view.StaticImageURL)
}

func TestRenderRequiresAddress(t *testing.T) {
	geo := &mockGeocoder{}
	svc := NewMapService(geo, MapOptions{}, nil)

	_, err := svc.Render(context.Background(), models.MapRequest{Address: "   "})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	geo.AssertNumberOfCalls(t, "Geocode", 0)
}

func TestRenderPropagatesGeocodeError(t *testing.T) {
	geo := &mockGeocoder{}
	geo.On("Geocode", "Rua A").Return(nil, apperr.NotFound(MsgLocationNotFound))
	svc := NewMapService(geo, MapOptions{}, nil)

	_, err := svc.Render(context.Background(), models.MapRequest{Address: "Rua A"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMoveMarker(t *testing.T) {
	svc := NewMapService(StaticGeocoder{}, MapOptions{}, nil)

	// Praça da Sé -> Avenida Paulista (MASP), cerca de 2,5 km
	move, err := svc.MoveMarker(context.Background(), models.MarkerMoveRequest{
		Origin:   DefaultTestPoint,
		Position: models.Point{Lat: -23.5614, Lon: -46.6559},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.57, move.DistanceKm, 0.1)
	assert.Equal(t, -23.5614, move.Position.Lat)

	same, err := svc.MoveMarker(context.Background(), models.MarkerMoveRequest{Origin: DefaultTestPoint, Position: DefaultTestPoint})
	require.NoError(t, err)
	assert.Zero(t, same.DistanceKm)
}

func TestMoveMarkerRejectsBadCoordinates(t *testing.T) {
	svc := NewMapService(StaticGeocoder{}, MapOptions{}, nil)

	_, err := svc.MoveMarker(context.Background(), models.MarkerMoveRequest{Origin: DefaultTestPoint, Position: models.Point{Lat: 120}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, MsgInvalidCoordinate, err.Error())
}

func TestMoveMarkerRequiresOrigin(t *testing.T) {
	svc := NewMapService(StaticGeocoder{}, MapOptions{}, nil)

	_, err := svc.MoveMarker(context.Background(), models.MarkerMoveRequest{Position: DefaultTestPoint})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, MsgOriginRequired, err.Error())
}
