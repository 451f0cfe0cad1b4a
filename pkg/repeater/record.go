// Package repeater holds the canonical repeater record and the normalization
// rules that turn listing rows and raw feed rows into it.
package repeater

import (
	"encoding/json"
	"sort"

	"github.com/twpayne/go-geom"
)

// Provenance identifies the ingestion path that produced a record. The value
// is written to the export file's marker column.
type Provenance string

const (
	ProvenanceListing Provenance = "v1"
	ProvenanceFeed    Provenance = "v2"
)

// Record is the canonical repeater record.
//
// Attrs is sparse: a key is present only when the source supplied the field.
// Position is nil or carries both coordinates, with X = longitude and
// Y = latitude.
type Record struct {
	Attrs      map[string]string
	Position   *geom.Point
	Provenance Provenance
}

// NewPosition builds a point for the given latitude and longitude.
func NewPosition(lat, lon float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{lon, lat})
}

// Get returns the attribute value, or "" when absent.
func (r Record) Get(name string) string {
	return r.Attrs[name]
}

// Has reports whether the attribute is present, even if empty.
func (r Record) Has(name string) bool {
	_, ok := r.Attrs[name]
	return ok
}

// LatLon returns the record coordinates.
func (r Record) LatLon() (lat, lon float64, ok bool) {
	if r.Position == nil {
		return 0, 0, false
	}
	return r.Position.Y(), r.Position.X(), true
}

// Names returns the attribute keys in lexical order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r.Attrs))
	for k := range r.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON flattens the record into a single object with numeric lat/lon.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Attrs)+3)
	for k, v := range r.Attrs {
		out[k] = v
	}
	if lat, lon, ok := r.LatLon(); ok {
		out[AttrLat] = lat
		out[AttrLon] = lon
	}
	if r.Provenance != "" {
		out[AttrScraperVersion] = string(r.Provenance)
	}
	return json.Marshal(out)
}
