package geo

import "gonum.org/v1/gonum/mat"

// DistanceMatrix returns the pairwise great-circle distances in kilometers
// between two node sets. Rows follow the from set, columns the to set.
func DistanceMatrix(from, to []Coordinate) *mat.Dense {
	d := mat.NewDense(len(from), len(to), nil)
	for i, a := range from {
		for j, b := range to {
			d.Set(i, j, Distance(a, b))
		}
	}
	return d
}
