package geo

import (
	"errors"
	"math"
	"sync"
	"testing"

	"walloc/internal/model"
)

func TestDistanceKnownPair(t *testing.T) {
	la := model.GeoPoint{Lat: 34.05, Lng: -118.24}
	ny := model.GeoPoint{Lat: 40.71, Lng: -74.01}
	d, err := Distance(la, ny)
	if err != nil {
		t.Fatal(err)
	}
	// LA to NYC great-circle is about 2445 miles
	if math.Abs(d-2445) > 25 {
		t.Fatalf("got %.1f miles, want ~2445", d)
	}
}

func TestDistanceZero(t *testing.T) {
	p := model.GeoPoint{Lat: 31.77, Lng: -106.43}
	d, err := Distance(p, p)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := model.GeoPoint{Lat: 33.85, Lng: -118.00}
	b := model.GeoPoint{Lat: 40.69, Lng: -75.49}
	d1, _ := Distance(a, b)
	d2, _ := Distance(b, a)
	if d1 != d2 {
		t.Fatalf("asymmetric: %v vs %v", d1, d2)
	}
}

func TestDistanceValidation(t *testing.T) {
	bad := []model.GeoPoint{
		{Lat: 91, Lng: 0},
		{Lat: -91, Lng: 0},
		{Lat: 0, Lng: 181},
		{Lat: 0, Lng: -181},
		{Lat: math.NaN(), Lng: 0},
	}
	good := model.GeoPoint{Lat: 0, Lng: 0}
	for _, p := range bad {
		if _, err := Distance(p, good); err == nil {
			t.Fatalf("expected validation error for %+v", p)
		}
		_, err := Distance(good, p)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("want ValidationError, got %v", err)
		}
	}
}

func TestServiceMemoizesUnorderedPair(t *testing.T) {
	s := NewService(nil)
	a := model.GeoPoint{Lat: 31.77, Lng: -106.43}
	b := model.GeoPoint{Lat: 32.78, Lng: -96.80}
	d1, err := s.Between(a, b)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := s.Between(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Fatalf("reverse lookup missed the memo: %v vs %v", d1, d2)
	}
	if _, ok := s.cache.Get(b, a); !ok {
		t.Fatal("pair not cached")
	}
}

func TestMemoCacheConcurrent(t *testing.T) {
	c := NewMemoCache()
	a := model.GeoPoint{Lat: 1, Lng: 2}
	b := model.GeoPoint{Lat: 3, Lng: 4}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put(a, b, 42)
			c.Get(a, b)
		}()
	}
	wg.Wait()
	if d, ok := c.Get(a, b); !ok || d != 42 {
		t.Fatalf("got %v %v", d, ok)
	}
}
