package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

var (
	cellDark  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	cellLight = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Sparsity renders the nonzero pattern of a matrix, one square cell per
// entry, dark where the entry is nonzero. Cells are upscaled with
// NearestNeighbor so they stay crisp at any cell size.
func Sparsity(a mat.Matrix, cellSize int) *image.RGBA {
	if cellSize < 1 {
		cellSize = 1
	}

	rows, cols := a.Dims()
	src := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			c := cellLight
			if a.At(i, j) != 0 {
				c = cellDark
			}
			src.SetRGBA(j, i, c)
		}
	}

	if cellSize == 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols*cellSize, rows*cellSize))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
