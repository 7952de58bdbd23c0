package geo

import "math/rand"

// PlaceNodes draws count random locations uniformly over the globe,
// longitude in [-180, 180) and latitude in [-90, 90). Determinism requires
// a caller-seeded source.
func PlaceNodes(rng *rand.Rand, count int) []Coordinate {
	nodes := make([]Coordinate, count)
	for i := range nodes {
		nodes[i] = Coordinate{
			Lon: rng.Float64()*360.0 - 180.0,
			Lat: rng.Float64()*180.0 - 90.0,
		}
	}
	return nodes
}

// PlaceNodeSets draws one node set per count, all from the same source.
func PlaceNodeSets(rng *rand.Rand, counts ...int) [][]Coordinate {
	sets := make([][]Coordinate, len(counts))
	for i, n := range counts {
		sets[i] = PlaceNodes(rng, n)
	}
	return sets
}
