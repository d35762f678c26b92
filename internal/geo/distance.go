package geo

import (
	"fmt"
	"math"

	"walloc/internal/model"
)

const earthRadiusMiles = 3958.8

// ValidationError reports a coordinate outside the valid degree range.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid coordinate: %s=%v", e.Field, e.Value)
}

func validate(p model.GeoPoint) error {
	if p.Lat < -90 || p.Lat > 90 || math.IsNaN(p.Lat) {
		return &ValidationError{Field: "lat", Value: p.Lat}
	}
	if p.Lng < -180 || p.Lng > 180 || math.IsNaN(p.Lng) {
		return &ValidationError{Field: "lng", Value: p.Lng}
	}
	return nil
}

// Distance returns the great-circle distance between a and b in miles.
func Distance(a, b model.GeoPoint) (float64, error) {
	if err := validate(a); err != nil {
		return 0, err
	}
	if err := validate(b); err != nil {
		return 0, err
	}
	return haversineMiles(a.Lat, a.Lng, b.Lat, b.Lng), nil
}

func haversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

// Service computes distances with memoization. The cache is keyed by the
// unordered coordinate pair, so warehouse->DC and DC->warehouse share one
// entry across weeks and products.
type Service struct {
	cache Cache
}

func NewService(cache Cache) *Service {
	if cache == nil {
		cache = NewMemoCache()
	}
	return &Service{cache: cache}
}

func (s *Service) Between(a, b model.GeoPoint) (float64, error) {
	if err := validate(a); err != nil {
		return 0, err
	}
	if err := validate(b); err != nil {
		return 0, err
	}
	if d, ok := s.cache.Get(a, b); ok {
		return d, nil
	}
	d := haversineMiles(a.Lat, a.Lng, b.Lat, b.Lng)
	s.cache.Put(a, b, d)
	return d, nil
}
