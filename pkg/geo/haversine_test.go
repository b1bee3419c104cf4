package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name: "Main Gate to Library",
			lat1: 10.8298, lon1: 78.6928,
			lat2: 10.8285, lon2: 78.6908,
			wantMeters:       260,
			tolerancePercent: 2,
		},
		{
			name: "Same point",
			lat1: 10.8291, lon1: 78.6916,
			lat2: 10.8291, lon2: 78.6916,
			wantMeters:       0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
		{
			name: "Short distance (~100m north)",
			lat1: 10.8291, lon1: 78.6916,
			lat2: 10.8300, lon2: 78.6916,
			wantMeters:       100,
			tolerancePercent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestPointValid(t *testing.T) {
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{Lat: 10.8291, Lng: 78.6916}, true},
		{Point{Lat: -90, Lng: 180}, true},
		{Point{Lat: 90.0001, Lng: 0}, false},
		{Point{Lat: 0, Lng: -180.5}, false},
		{Point{Lat: math.NaN(), Lng: 78.6916}, false},
		{Point{Lat: 10.8291, Lng: math.NaN()}, false},
		{Point{Lat: math.Inf(-1), Lng: 0}, false},
	}
	for _, tt := range tests {
		if got := tt.p.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestDistanceSymmetricAndZero(t *testing.T) {
	points := []Point{
		{Lat: 10.8291, Lng: 78.6916},
		{Lat: 10.8285, Lng: 78.6908},
		{Lat: 10.829873, Lng: 78.690455},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 0, Lng: 0},
	}

	for _, a := range points {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%v, %v) = %f, want 0", a, a, d)
		}
		for _, b := range points {
			if a == b {
				continue
			}
			ab := Distance(a, b)
			ba := Distance(b, a)
			if ab != ba {
				t.Errorf("Distance not symmetric: %v->%v = %f, reverse = %f", a, b, ab, ba)
			}
			if ab <= 0 {
				t.Errorf("Distance(%v, %v) = %f, want > 0", a, b, ab)
			}
		}
	}
}

func TestEquirectangularDist(t *testing.T) {
	// Campus scale: equirectangular should track Haversine closely.
	lat1, lon1 := 10.8285, 78.6908
	lat2, lon2 := 10.8298, 78.6928

	h := Haversine(lat1, lon1, lat2, lon2)
	e := EquirectangularDist(lat1, lon1, lat2, lon2)

	diffPercent := math.Abs(h-e) / h * 100
	if diffPercent > 0.1 {
		t.Errorf("EquirectangularDist differs from Haversine by %.3f%% (haversine=%f, equirect=%f)", diffPercent, h, e)
	}
}

func BenchmarkHaversine(b *testing.B) {
	for b.Loop() {
		Haversine(10.8291, 78.6916, 10.8285, 78.6908)
	}
}

func BenchmarkEquirectangularDist(b *testing.B) {
	for b.Loop() {
		EquirectangularDist(10.8291, 78.6916, 10.8285, 78.6908)
	}
}
