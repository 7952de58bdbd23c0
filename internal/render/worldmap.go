// Package render draws solved supply chains on a world map and constraint
// matrices as sparsity images.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"

	"github.com/trsav/biomass-supply-chain/internal/geo"

	"github.com/chai2010/webp"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

// minFlow is the smallest shipped quantity that still gets a line.
const minFlow = 1e-9

// MapStyle controls the world map output.
type MapStyle struct {
	// Width and Height of the final image in pixels.
	Width  int
	Height int
	// Supersample draws at a multiple of the final size and downscales
	// with CatmullRom, which keeps thin flow lines smooth.
	Supersample int
	// Quality is the WebP encoder quality.
	Quality float32
}

func (s MapStyle) withDefaults() MapStyle {
	if s.Width <= 0 {
		s.Width = 1600
	}
	if s.Height <= 0 {
		s.Height = 800
	}
	if s.Supersample < 1 {
		s.Supersample = 2
	}
	if s.Quality <= 0 {
		s.Quality = 90
	}
	return s
}

// FlowLayer draws the flows of one echelon pair as lines between node
// pairs, stroke width proportional to the shipped quantity.
type FlowLayer struct {
	From  []geo.Coordinate
	To    []geo.Coordinate
	Flows *mat.Dense
	Color color.Color
	// Width is the stroke width in final-image pixels per unit of flow.
	Width float64
}

// NodeLayer draws one node set as filled discs. When Amounts is set the
// disc area scales with the amount, mirroring the capacity and demand
// sizing of the source plots.
type NodeLayer struct {
	Nodes   []geo.Coordinate
	Amounts []float64
	Color   color.Color
	// Edge, when non-nil, outlines each disc.
	Edge color.Color
	// Radius is the base disc radius in final-image pixels.
	Radius float64
}

// WorldMap renders flow layers under node layers on an equirectangular
// world canvas with a 30 degree graticule.
func WorldMap(style MapStyle, flows []FlowLayer, nodes []NodeLayer) *image.RGBA {
	style = style.withDefaults()
	s := float64(style.Supersample)
	w := style.Width * style.Supersample
	h := style.Height * style.Supersample

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	drawGraticule(dc, w, h, s)

	for _, layer := range flows {
		drawFlows(dc, layer, w, h, s)
	}
	for _, layer := range nodes {
		drawNodes(dc, layer, w, h, s)
	}

	img := dc.Image()
	if style.Supersample == 1 {
		return img.(*image.RGBA)
	}

	dst := image.NewRGBA(image.Rect(0, 0, style.Width, style.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// project maps lon/lat degrees onto the canvas, north up.
func project(pt geo.Coordinate, w, h int) (x, y float64) {
	x = (pt.Lon + 180) / 360 * float64(w)
	y = (90 - pt.Lat) / 180 * float64(h)
	return x, y
}

func drawGraticule(dc *gg.Context, w, h int, s float64) {
	dc.SetRGBA(0.5, 0.5, 0.5, 0.5)
	dc.SetLineWidth(s)

	for lon := -180.0; lon <= 180; lon += 30 {
		x, _ := project(geo.Coordinate{Lon: lon, Lat: 0}, w, h)
		dc.DrawLine(x, 0, x, float64(h))
		dc.Stroke()
	}
	for lat := -90.0; lat <= 90; lat += 30 {
		_, y := project(geo.Coordinate{Lat: lat}, w, h)
		dc.DrawLine(0, y, float64(w), y)
		dc.Stroke()
	}
}

func drawFlows(dc *gg.Context, layer FlowLayer, w, h int, s float64) {
	if layer.Flows == nil {
		return
	}
	dc.SetColor(layer.Color)

	rows, cols := layer.Flows.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			flow := layer.Flows.At(i, j)
			if flow < minFlow {
				continue
			}

			x1, y1 := project(layer.From[i], w, h)
			x2, y2 := project(layer.To[j], w, h)
			dc.SetLineWidth(flow * layer.Width * s)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	}
}

func drawNodes(dc *gg.Context, layer NodeLayer, w, h int, s float64) {
	for i, node := range layer.Nodes {
		r := layer.Radius * s
		if i < len(layer.Amounts) {
			r *= math.Sqrt(layer.Amounts[i])
		}
		if r <= 0 {
			continue
		}

		x, y := project(node, w, h)
		dc.DrawCircle(x, y, r)
		dc.SetColor(layer.Color)
		dc.Fill()

		if layer.Edge != nil {
			dc.DrawCircle(x, y, r)
			dc.SetColor(layer.Edge)
			dc.SetLineWidth(s)
			dc.Stroke()
		}
	}
}

// SaveWebP encodes an image to a WebP file, creating the directory first.
func SaveWebP(path string, img image.Image, quality float32) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return webp.Encode(f, img, &webp.Options{Lossless: false, Quality: quality})
}
