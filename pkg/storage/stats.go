package storage

import "github.com/rptrscope/rptrscope/pkg/repeater"

// UnknownBand labels records without a band classification.
const UnknownBand = "Unknown"

// Summary aggregates an export for the stats command.
type Summary struct {
	Total        int
	ByBand       map[string]int
	Active       int
	OffAir       int
	WithPosition int
}

// Summarize counts records by band name, by active state and by whether
// they carry coordinates.
func Summarize(records []repeater.Record) Summary {
	s := Summary{Total: len(records), ByBand: map[string]int{}}
	for _, rec := range records {
		band := rec.Get(repeater.AttrBandName)
		if band == "" {
			band = UnknownBand
		}
		s.ByBand[band]++

		switch rec.Get(repeater.AttrActive) {
		case "Y":
			s.Active++
		case "T":
			s.OffAir++
		}
		if rec.Position != nil {
			s.WithPosition++
		}
	}
	return s
}
