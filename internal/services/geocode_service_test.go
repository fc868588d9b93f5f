package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cep-locator/internal/apperr"
	"cep-locator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMapboxGeocoder(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("access_token")
		_, _ = w.Write([]byte(`{"features": [{"place_name": "Praça da Sé", "center": [-46.6339, -23.5503]}]}`))
	}))
	defer srv.Close()

	g := NewMapboxGeocoder(srv.URL, "pk.test", srv.Client(), nil)
	p, err := g.Geocode(context.Background(), "Praça da Sé, Sé, São Paulo, SP")
	require.NoError(t, err)

	assert.Equal(t, -23.5503, p.Lat)
	assert.Equal(t, -46.6339, p.Lon)
	assert.Equal(t, "/geocoding/v5/mapbox.places/Praça da Sé, Sé, São Paulo, SP.json", gotPath)
	assert.Equal(t, "pk.test", gotToken)
}

func TestMapboxGeocoderNoFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	_, err := NewMapboxGeocoder(srv.URL, "pk.test", srv.Client(), nil).Geocode(context.Background(), "lugar nenhum")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, MsgLocationNotFound, err.Error())
}

func TestMapboxGeocoderUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewMapboxGeocoder(srv.URL, "bad", srv.Client(), nil).Geocode(context.Background(), "Rua Augusta")
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

func TestNominatimGeocoder(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"lat": "-22.9068", "lon": "-43.1729", "display_name": "Rio de Janeiro"}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL+"/search", srv.Client(), nil)
	p, err := g.Geocode(context.Background(), "Rua do Ouvidor, Centro, Rio de Janeiro, RJ")
	require.NoError(t, err)

	assert.Equal(t, models.Point{Lat: -22.9068, Lon: -43.1729}, *p)
	assert.Equal(t, "Rua do Ouvidor, Centro, Rio de Janeiro, RJ", gotQuery)
	assert.Equal(t, nominatimUserAgent, gotAgent)
}

func TestNominatimGeocoderBadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat": "abc", "lon": "1"}]`))
	}))
	defer srv.Close()

	_, err := NewNominatimGeocoder(srv.URL, srv.Client(), nil).Geocode(context.Background(), "x")
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

func TestNominatimGeocoderEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewNominatimGeocoder(srv.URL, srv.Client(), nil).Geocode(context.Background(), "x")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestNominatimGeocoderThrottlesToOnePerSecond(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		_, _ = w.Write([]byte(`[{"lat": "-22.9068", "lon": "-43.1729"}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, srv.Client(), nil)
	_, err := g.Geocode(context.Background(), "Rua do Ouvidor")
	require.NoError(t, err)

	// a segunda chamada precisaria esperar ~1s, mais que o prazo do contexto
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = g.Geocode(ctx, "Rua do Ouvidor")
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestNominatimGeocoderWaitsBetweenCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat": "-22.9068", "lon": "-43.1729"}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, srv.Client(), nil)
	_, err := g.Geocode(context.Background(), "a")
	require.NoError(t, err)

	start := time.Now()
	_, err = g.Geocode(context.Background(), "b")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*models.Point, error) {
	args := m.Called(address)
	p, _ := args.Get(0).(*models.Point)
	return p, args.Error(1)
}

func TestChainGeocoderFallsThrough(t *testing.T) {
	first := &mockGeocoder{}
	second := &mockGeocoder{}
	first.On("Geocode", "Rua A").Return(nil, apperr.NotFound(MsgLocationNotFound))
	second.On("Geocode", "Rua A").Return(&models.Point{Lat: 1, Lon: 2}, nil)

	p, err := NewChainGeocoder(nil, first, second).Geocode(context.Background(), "Rua A")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Lat)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestChainGeocoderReturnsLastError(t *testing.T) {
	first := &mockGeocoder{}
	second := &mockGeocoder{}
	first.On("Geocode", "Rua A").Return(nil, apperr.NotFound(MsgLocationNotFound))
	second.On("Geocode", "Rua A").Return(nil, apperr.Unavailable(MsgGeocodeUnavailable, errors.New("down")))

	_, err := NewChainGeocoder(nil, first, second).Geocode(context.Background(), "Rua A")
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

func TestChainGeocoderStopsOnFirstHit(t *testing.T) {
	first := &mockGeocoder{}
	second := &mockGeocoder{}
	first.On("Geocode", "Rua A").Return(&models.Point{Lat: 5}, nil)

	_, err := NewChainGeocoder(nil, first, second).Geocode(context.Background(), "Rua A")
	require.NoError(t, err)
	second.AssertNumberOfCalls(t, "Geocode", 0)
}

func TestChainGeocoderEmpty(t *testing.T) {
	_, err := NewChainGeocoder(nil).Geocode(context.Background(), "Rua A")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestNewGeocoderSelection(t *testing.T) {
	opts := GeocoderOptions{Kind: GeocoderAuto, MapboxURL: "http://mapbox", NominatimURL: "http://osm"}

	assert.IsType(t, StaticGeocoder{}, NewGeocoder(GeocoderOptions{TestMode: true, Kind: GeocoderMapbox}, nil, nil))
	assert.IsType(t, &NominatimGeocoder{}, NewGeocoder(opts, nil, nil))

	opts.MapboxToken = "pk"
	assert.IsType(t, &ChainGeocoder{}, NewGeocoder(opts, nil, nil))

	opts.Kind = GeocoderMapbox
	assert.IsType(t, &MapboxGeocoder{}, NewGeocoder(opts, nil, nil))

	opts.Kind = GeocoderNominatim
	assert.IsType(t, &NominatimGeocoder{}, NewGeocoder(opts, nil, nil))
}
