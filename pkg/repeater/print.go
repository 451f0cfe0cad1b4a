package repeater

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PrintRecords writes one line per record, with the fields selected by
// outputFlags joined by delimiter.
//
//	c call, f frequency, o offset, b band name, l location,
//	s site name, t tone, p position (lat,lon)
func PrintRecords(w io.Writer, records []Record, outputFlags, delimiter string) error {
	if err := ValidateOutputFlags(outputFlags); err != nil {
		return err
	}
	for _, rec := range records {
		line := createLine(rec, outputFlags, delimiter)
		if len(strings.ReplaceAll(line, delimiter, "")) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOutputFlags rejects unknown print flags.
func ValidateOutputFlags(outputFlags string) error {
	for _, f := range outputFlags {
		if !strings.ContainsRune("cfoblstp", f) {
			return fmt.Errorf("invalid print flag %q", f)
		}
	}
	return nil
}

func createLine(rec Record, outputFlags, delimiter string) string {
	var line string
	for _, f := range outputFlags {
		switch f {
		case 'c':
			line += rec.Get(AttrCall) + delimiter
		case 'f':
			line += rec.Get(AttrFrequency) + delimiter
		case 'o':
			line += rec.Get(AttrOffset) + delimiter
		case 'b':
			line += rec.Get(AttrBandName) + delimiter
		case 'l':
			line += rec.Get(AttrLocation) + delimiter
		case 's':
			line += rec.Get(AttrSiteName) + delimiter
		case 't':
			tone := rec.Get(AttrCTCSSIn)
			if tone == "" {
				tone = rec.Get(AttrCTCSS)
			}
			line += tone + delimiter
		case 'p':
			if lat, lon, ok := rec.LatLon(); ok {
				line += FormatCoord(lat) + "," + FormatCoord(lon)
			}
			line += delimiter
		}
	}
	return strings.TrimSuffix(line, delimiter)
}

// FormatCoord renders a coordinate with the shortest exact representation.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
