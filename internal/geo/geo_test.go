package geo

import (
	"math"
	"math/rand"
	"testing"
)

func absDiff(a, b float64) float64 {
	return math.Abs(a - b)
}

func TestDistanceZeroAtSamePoint(t *testing.T) {
	points := []Coordinate{
		{Lon: 0, Lat: 0},
		{Lon: -180, Lat: 0},
		{Lon: 13.4, Lat: 52.5},
		{Lon: 151.2, Lat: -33.9},
		{Lon: 0, Lat: 90},
	}

	for _, p := range points {
		if d := Distance(p, p); absDiff(d, 0) > 1e-9 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 10}},
		{{Lon: -73.97, Lat: 40.78}, {Lon: 2.35, Lat: 48.86}},
		{{Lon: 151.2, Lat: -33.9}, {Lon: -0.13, Lat: 51.51}},
	}

	for _, pair := range pairs {
		ab := Distance(pair[0], pair[1])
		ba := Distance(pair[1], pair[0])
		if absDiff(ab, ba) > 1e-9 {
			t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistancePoleToPole(t *testing.T) {
	north := Coordinate{Lon: 0, Lat: 90}
	south := Coordinate{Lon: 0, Lat: -90}

	got := Distance(north, south)
	want := math.Pi * EarthRadiusKm

	if absDiff(got, want) > 1e-6 {
		t.Fatalf("pole to pole distance = %v, want %v", got, want)
	}
}

func TestDistanceQuarterCircumferenceOnEquator(t *testing.T) {
	a := Coordinate{Lon: 0, Lat: 0}
	b := Coordinate{Lon: 90, Lat: 0}

	got := Distance(a, b)
	want := math.Pi / 2 * EarthRadiusKm

	if absDiff(got, want) > 1e-6 {
		t.Fatalf("quarter circumference = %v, want %v", got, want)
	}
}

func TestPlaceNodesWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	nodes := PlaceNodes(rng, 200)

	if len(nodes) != 200 {
		t.Fatalf("got %d nodes, want 200", len(nodes))
	}

	for _, n := range nodes {
		if n.Lon < -180 || n.Lon > 180 {
			t.Errorf("longitude %v out of range", n.Lon)
		}
		if n.Lat < -90 || n.Lat > 90 {
			t.Errorf("latitude %v out of range", n.Lat)
		}
	}
}

func TestPlaceNodesDeterministic(t *testing.T) {
	a := PlaceNodes(rand.New(rand.NewSource(100000)), 25)
	b := PlaceNodes(rand.New(rand.NewSource(100000)), 25)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("node %d differs between equal seeds: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPlaceNodeSetsCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sets := PlaceNodeSets(rng, 3, 5, 8)

	wantCounts := []int{3, 5, 8}
	if len(sets) != len(wantCounts) {
		t.Fatalf("got %d sets, want %d", len(sets), len(wantCounts))
	}
	for i, want := range wantCounts {
		if len(sets[i]) != want {
			t.Errorf("set %d has %d nodes, want %d", i, len(sets[i]), want)
		}
	}
}

func TestDistanceMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	from := PlaceNodes(rng, 4)
	to := PlaceNodes(rng, 6)

	d := DistanceMatrix(from, to)

	rows, cols := d.Dims()
	if rows != 4 || cols != 6 {
		t.Fatalf("matrix dims = %dx%d, want 4x6", rows, cols)
	}

	for i := range from {
		for j := range to {
			want := Distance(from[i], to[j])
			if got := d.At(i, j); absDiff(got, want) > 1e-9 {
				t.Errorf("entry (%d,%d) = %v, want %v", i, j, got, want)
			}
			if d.At(i, j) < 0 {
				t.Errorf("entry (%d,%d) negative", i, j)
			}
		}
	}
}

func TestNodeCollection(t *testing.T) {
	nodes := []Coordinate{{Lon: 1, Lat: 2}, {Lon: 3, Lat: 4}}
	amounts := []float64{0.5, 1.5}

	fc := NodeCollection("supply", nodes, amounts)

	if fc.Type != "FeatureCollection" {
		t.Fatalf("collection type = %q", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}

	f := fc.Features[1]
	if f.Geometry.Type != "Point" {
		t.Errorf("geometry type = %q, want Point", f.Geometry.Type)
	}
	if f.Geometry.Coordinates[0] != 3 || f.Geometry.Coordinates[1] != 4 {
		t.Errorf("coordinates = %v, want [3 4]", f.Geometry.Coordinates)
	}
	if f.Properties["kind"] != "supply" {
		t.Errorf("kind = %v, want supply", f.Properties["kind"])
	}
	if f.Properties["amount"] != 1.5 {
		t.Errorf("amount = %v, want 1.5", f.Properties["amount"])
	}
}
