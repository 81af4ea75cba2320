package schema

// CentroidRecord is one cleaned country centroid reference row.
// Latitude and longitude are validated against their physical ranges.
type CentroidRecord struct {
	ISO3 string  `json:"iso3"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}
