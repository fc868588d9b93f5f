package models

import "fmt"

// Point é uma coordenada geográfica
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate confere se a coordenada está dentro dos limites
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude out of range: %v", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude out of range: %v", p.Lon)
	}
	return nil
}

// Marker é o pino exibido sobre o mapa
type Marker struct {
	Position  Point  `json:"position"`
	Anchor    string `json:"anchor"`
	Draggable bool   `json:"draggable"`
}

// MapView contém tudo que o cliente precisa para desenhar o mapa
type MapView struct {
	Address        string            `json:"address"`
	Data           *Address          `json:"data,omitempty"`
	Center         Point             `json:"center"`
	Zoom           float64           `json:"zoom"`
	Style          string            `json:"style"`
	Marker         Marker            `json:"marker"`
	Available      bool              `json:"available"`
	Message        string            `json:"message,omitempty"`
	StaticImageURL string            `json:"static_image_url,omitempty"`
	GeoJSON        FeatureCollection `json:"geojson"`
}

// MarkerMove é a resposta ao arrastar o marcador
type MarkerMove struct {
	Position   Point   `json:"position"`
	Origin     Point   `json:"origin"`
	DistanceKm float64 `json:"distance_km"`
}

// FeatureCollection segue a estrutura padrão do GeoJSON
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature é um elemento do GeoJSON com geometria e propriedades
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry guarda as coordenadas na ordem [lon, lat]
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// PointFeature cria um Feature do tipo Point
func PointFeature(p Point, props map[string]interface{}) Feature {
	if props == nil {
		props = map[string]interface{}{}
	}
	return Feature{
		Type:       "Feature",
		Geometry:   Geometry{Type: "Point", Coordinates: []float64{p.Lon, p.Lat}},
		Properties: props,
	}
}
