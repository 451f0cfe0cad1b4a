package repeater

import "strings"

// ListingFields is one data row of the HTML listing, mapped by position.
type ListingFields struct {
	Frequency string
	Offset    string
	Location  string
	Area      string
	SiteName  string
	Call      string
	Sponsor   string
	CTCSS     string
	Info      string
	Links     string
	HasLinks  bool
	DetailURL string
}

// FromFeedRow converts a retained raw-feed row into a canonical record.
// Headers with no canonical name are dropped.
func FromFeedRow(row map[string]string) Record {
	rec := Record{Attrs: make(map[string]string, len(row)+3), Provenance: ProvenanceFeed}
	for header, value := range row {
		if name, ok := CanonicalName(header); ok {
			rec.Attrs[name] = strings.TrimSpace(value)
		}
	}

	if out := rec.Attrs[AttrOutputFrequency]; out != "" {
		rec.Attrs[AttrFrequency] = out
		if mhz, ok := ParseNumber(out); ok {
			rec.Attrs[AttrBandName] = Band(mhz)
		}
	}
	if offset, ok := DuplexOffset(rec.Attrs[AttrInputFrequency], rec.Attrs[AttrOutputFrequency]); ok {
		rec.Attrs[AttrOffset] = offset
	}
	rec.Position = FeedPosition(rec.Attrs[AttrLatitude], rec.Attrs[AttrLongitude])
	return rec
}

// FromListing merges a listing row and its detail-page fields into a
// canonical record. Detail values win over listing values of the same name.
func FromListing(row ListingFields, detail map[string]string) Record {
	rec := Record{Attrs: map[string]string{
		AttrFrequency: row.Frequency,
		AttrOffset:    row.Offset,
		AttrLocation:  row.Location,
		AttrArea:      row.Area,
		AttrSiteName:  row.SiteName,
		AttrCall:      row.Call,
		AttrSponsor:   row.Sponsor,
		AttrCTCSS:     row.CTCSS,
		AttrInfo:      row.Info,
	}, Provenance: ProvenanceListing}
	if row.HasLinks {
		rec.Attrs[AttrLinks] = row.Links
	}
	if row.DetailURL != "" {
		rec.Attrs[AttrDetailURL] = row.DetailURL
	}

	for key, value := range detail {
		if name, ok := CanonicalName(key); ok {
			rec.Attrs[name] = strings.TrimSpace(value)
		}
	}

	if mhz, ok := ParseNumber(rec.Attrs[AttrOutputFrequency]); ok {
		rec.Attrs[AttrBandName] = Band(mhz)
	} else if mhz, ok := ParseNumber(rec.Attrs[AttrFrequency]); ok {
		rec.Attrs[AttrBandName] = Band(mhz)
	}
	if pos, ok := ParseCombinedCoordinates(rec.Attrs[AttrCoordinates]); ok {
		rec.Position = pos
	}
	return rec
}
