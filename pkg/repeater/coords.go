package repeater

import (
	"regexp"
	"strconv"

	"github.com/twpayne/go-geom"
)

// Region is the Utah bounding box, longitude on X. Feed coordinates outside
// it are discarded.
var Region = geom.NewBounds(geom.XY).Set(-114.5, 36.0, -109.0, 42.5)

var combinedCoordsRe = regexp.MustCompile(`(?is)Lat:\s*(\d+(?:\.\d+)?)\s*[°º]?\s*N.*?Lon:\s*(\d+(?:\.\d+)?)\s*[°º]?\s*W`)

// ParseCombinedCoordinates extracts a position from the listing's combined
// text, e.g. "Lat: 40.5678° N. Lon: 111.8765° W.". Longitude is reported
// westward and is negated.
func ParseCombinedCoordinates(text string) (*geom.Point, bool) {
	m := combinedCoordsRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, false
	}
	return NewPosition(lat, -lon), true
}

// FeedPosition builds a position from signed decimal latitude and longitude
// text. Unparseable values and points outside Region yield nil.
func FeedPosition(latText, lonText string) *geom.Point {
	lat, ok := ParseNumber(latText)
	if !ok {
		return nil
	}
	lon, ok := ParseNumber(lonText)
	if !ok {
		return nil
	}
	if !Region.OverlapsPoint(geom.XY, geom.Coord{lon, lat}) {
		return nil
	}
	return NewPosition(lat, lon)
}
