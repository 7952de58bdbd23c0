// Package geo handles geographic data structures and great-circle distance math.
package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties"`
	Type       string                 `json:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, Polygon, etc.).
type GeoJSONGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [Lon, Lat]
}

// NodeCollection builds a FeatureCollection of Point features for one node
// set. Every feature carries the set kind and its 1-based node index; when
// amounts are provided they are attached per node (capacity or demand,
// depending on the set).
func NodeCollection(kind string, nodes []Coordinate, amounts []float64) GeoJSONFeatureCollection {
	fc := GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoJSONFeature, 0, len(nodes)),
	}

	for i, node := range nodes {
		props := map[string]interface{}{
			"kind":  kind,
			"index": i + 1,
		}
		if i < len(amounts) {
			props["amount"] = amounts[i]
		}

		fc.Features = append(fc.Features, GeoJSONFeature{
			Type: "Feature",
			Geometry: GeoJSONGeometry{
				Type:        "Point",
				Coordinates: []float64{node.Lon, node.Lat},
			},
			Properties: props,
		})
	}

	return fc
}

// MergeCollections concatenates the features of several collections.
func MergeCollections(collections ...GeoJSONFeatureCollection) GeoJSONFeatureCollection {
	out := GeoJSONFeatureCollection{Type: "FeatureCollection", Features: []GeoJSONFeature{}}
	for _, fc := range collections {
		out.Features = append(out.Features, fc.Features...)
	}
	return out
}
