package geo

import (
	"math"
	"testing"
)

func TestParseCoordinate(t *testing.T) {
	p, ok := ParseCoordinate("13.7563, 100.5018")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if p.Lat != 13.7563 || p.Lon != 100.5018 {
		t.Errorf("got %+v", p)
	}

	// No space after the comma is still valid.
	if _, ok := ParseCoordinate("13.7563,100.5018"); !ok {
		t.Error("expected comma without space to parse")
	}

	for _, bad := range []string{
		"",
		"13.7563",
		"13.7563 100.5018",
		"abc, def",
		"NaN, 100",
		"Inf, 100",
		"91, 0",
		"-91, 0",
		"0, 181",
		"0, -181",
	} {
		if _, ok := ParseCoordinate(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestDistanceKm(t *testing.T) {
	a := Point{Lat: 13.7563, Lon: 100.5018}
	if d := DistanceKm(a, a); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}

	// Two points roughly 20 m apart on a Bangkok street.
	b := Point{Lat: 13.75648, Lon: 100.5018}
	d := DistanceKm(a, b)
	if math.Abs(d-0.02) > 0.001 {
		t.Errorf("distance = %v km, want ~0.02", d)
	}

	if DistanceKm(a, b) != DistanceKm(b, a) {
		t.Error("distance must be symmetric")
	}
}

func TestRoundKm(t *testing.T) {
	if got := RoundKm(0.0204999); got != 0.02 {
		t.Errorf("RoundKm = %v, want 0.02", got)
	}
	if got := RoundKm(1.23456); got != 1.235 {
		t.Errorf("RoundKm = %v, want 1.235", got)
	}
}

func TestIsWithinRadius(t *testing.T) {
	a := Point{Lat: 13.7563, Lon: 100.5018}
	near := Point{Lat: 13.75648, Lon: 100.5018} // ~20 m
	far := Point{Lat: 13.7660, Lon: 100.5018}   // ~1.1 km

	if !IsWithinRadius(a, near, 0.5) {
		t.Error("expected near point inside the default 0.5 km fence")
	}
	if IsWithinRadius(a, far, 0.5) {
		t.Error("expected far point outside the default 0.5 km fence")
	}
	// A wider configured fence admits the same point.
	if !IsWithinRadius(a, far, 1.5) {
		t.Error("expected far point inside a 1.5 km fence")
	}
	// The boundary itself is inside.
	if !IsWithinRadius(a, a, 0) {
		t.Error("expected zero distance within zero radius")
	}
}
