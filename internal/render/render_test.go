package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/trsav/biomass-supply-chain/internal/geo"

	"gonum.org/v1/gonum/mat"
)

func testLayers() ([]FlowLayer, []NodeLayer) {
	supply := []geo.Coordinate{{Lon: -60, Lat: 40}}
	demand := []geo.Coordinate{{Lon: 80, Lat: -20}, {Lon: 10, Lat: 50}}

	flows := []FlowLayer{{
		From:  supply,
		To:    demand,
		Flows: mat.NewDense(1, 2, []float64{1.5, 0}),
		Color: color.RGBA{A: 64},
		Width: 3,
	}}
	nodes := []NodeLayer{
		{
			Nodes:   supply,
			Amounts: []float64{2},
			Color:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Edge:    color.RGBA{A: 255},
			Radius:  6,
		},
		{
			Nodes:   demand,
			Amounts: []float64{0.5, 1},
			Color:   color.RGBA{R: 31, G: 119, B: 180, A: 255},
			Radius:  6,
		},
	}
	return flows, nodes
}

func TestWorldMapDimensions(t *testing.T) {
	flows, nodes := testLayers()

	cases := map[string]MapStyle{
		"supersampled": {Width: 200, Height: 100, Supersample: 2},
		"direct":       {Width: 200, Height: 100, Supersample: 1},
	}
	for name, style := range cases {
		img := WorldMap(style, flows, nodes)
		b := img.Bounds()
		if b.Dx() != 200 || b.Dy() != 100 {
			t.Errorf("%s: image is %dx%d, want 200x100", name, b.Dx(), b.Dy())
		}
	}
}

func TestWorldMapDefaultStyle(t *testing.T) {
	img := WorldMap(MapStyle{}, nil, nil)
	b := img.Bounds()
	if b.Dx() != 1600 || b.Dy() != 800 {
		t.Errorf("image is %dx%d, want the 1600x800 default", b.Dx(), b.Dy())
	}
}

func TestSparsityCells(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{
		1, 0, 0,
		0, 0, 2,
	})

	img := Sparsity(a, 4)
	b := img.Bounds()
	if b.Dx() != 12 || b.Dy() != 8 {
		t.Fatalf("image is %dx%d, want 12x8", b.Dx(), b.Dy())
	}

	if got := img.RGBAAt(1, 1); got != cellDark {
		t.Errorf("nonzero cell rendered %v, want %v", got, cellDark)
	}
	if got := img.RGBAAt(5, 1); got != cellLight {
		t.Errorf("zero cell rendered %v, want %v", got, cellLight)
	}
	if got := img.RGBAAt(9, 5); got != cellDark {
		t.Errorf("nonzero cell rendered %v, want %v", got, cellDark)
	}
}

func TestSparsityUnitCells(t *testing.T) {
	a := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 0})
	img := Sparsity(a, 1)
	b := img.Bounds()
	if b.Dx() != 2 || b.Dy() != 3 {
		t.Errorf("image is %dx%d, want 2x3", b.Dx(), b.Dy())
	}
}

func TestSaveWebP(t *testing.T) {
	flows, nodes := testLayers()
	img := WorldMap(MapStyle{Width: 64, Height: 32, Supersample: 1}, flows, nodes)

	path := filepath.Join(t.TempDir(), "maps", "flows.webp")
	if err := SaveWebP(path, img, 90); err != nil {
		t.Fatalf("SaveWebP failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}
