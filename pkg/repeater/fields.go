package repeater

import "strings"

// Canonical attribute names. These are also the export column names.
const (
	AttrCall             = "call"
	AttrFrequency        = "frequency"
	AttrOutputFrequency  = "output_frequency"
	AttrInputFrequency   = "input_frequency"
	AttrOffset           = "offset"
	AttrBand             = "band"
	AttrBandName         = "band_name"
	AttrLocation         = "location"
	AttrSiteName         = "site_name"
	AttrSponsor          = "sponsor"
	AttrArea             = "area"
	AttrState            = "state"
	AttrCTCSS            = "ctcss"
	AttrCTCSSIn          = "ctcss_in"
	AttrCTCSSOut         = "ctcss_out"
	AttrDCS              = "dcs"
	AttrDCSCode          = "dcs_code"
	AttrLat              = "lat"
	AttrLon              = "lon"
	AttrLatitude         = "latitude"
	AttrLongitude        = "longitude"
	AttrLatitudeDMS      = "latitude_dms"
	AttrLongitudeDMS     = "longitude_dms"
	AttrCoordinates      = "coordinates"
	AttrElevation        = "elevation"
	AttrElevationFeet    = "elevation_feet"
	AttrActive           = "active"
	AttrOpen             = "open"
	AttrClosed           = "closed"
	AttrOpenClosed       = "open_closed"
	AttrWideArea         = "wide_area"
	AttrLinked           = "linked"
	AttrLinkFreq         = "link_freq"
	AttrAutopatch        = "autopatch"
	AttrEmergencyPower   = "emergency_power"
	AttrPortable         = "portable"
	AttrFeatures         = "features"
	AttrCoverageArea     = "coverage_area"
	AttrNotes            = "notes"
	AttrInfo             = "info"
	AttrFootnotes        = "footnotes"
	AttrContactEmail     = "contact_email"
	AttrWebPage          = "repeater_web_page"
	AttrContactPhone     = "contact_phone"
	AttrMailingAddress   = "mailing_address"
	AttrCoordinated      = "coordinated"
	AttrCoordDate        = "coord_date"
	AttrUpdateDate       = "update_date"
	AttrUpdateSource     = "update_source"
	AttrCoordNotes       = "coord_notes"
	AttrTxPower          = "tx_power"
	AttrAntennaInfo      = "antenna_info"
	AttrERP              = "erp"
	AttrUseType          = "use_type"
	AttrSource           = "source"
	AttrLinks            = "links"
	AttrDetailURL        = "detail_url"
	AttrRepeaterCallsign = "repeater_callsign"
	AttrScraperVersion   = "scraper_version"
)

// canonicalNames is the full canonical attribute set.
var canonicalNames = map[string]bool{}

func init() {
	for _, name := range []string{
		AttrCall, AttrFrequency, AttrOutputFrequency, AttrInputFrequency, AttrOffset,
		AttrBand, AttrBandName, AttrLocation, AttrSiteName, AttrSponsor, AttrArea, AttrState,
		AttrCTCSS, AttrCTCSSIn, AttrCTCSSOut, AttrDCS, AttrDCSCode,
		AttrLat, AttrLon, AttrLatitude, AttrLongitude, AttrLatitudeDMS, AttrLongitudeDMS,
		AttrCoordinates, AttrElevation, AttrElevationFeet,
		AttrActive, AttrOpen, AttrClosed, AttrOpenClosed,
		AttrWideArea, AttrLinked, AttrLinkFreq, AttrAutopatch, AttrEmergencyPower, AttrPortable, AttrFeatures,
		AttrCoverageArea, AttrNotes, AttrInfo, AttrFootnotes,
		AttrContactEmail, AttrWebPage, AttrContactPhone, AttrMailingAddress,
		AttrCoordinated, AttrCoordDate, AttrUpdateDate, AttrUpdateSource, AttrCoordNotes,
		AttrTxPower, AttrAntennaInfo, AttrERP, AttrUseType, AttrSource,
		AttrLinks, AttrDetailURL, AttrRepeaterCallsign, AttrScraperVersion,
	} {
		canonicalNames[name] = true
	}
}

// feedColumns maps the raw feed's native headers to canonical names.
var feedColumns = map[string]string{
	"BAND":              AttrBand,
	"OUTPUT":            AttrOutputFrequency,
	"INPUT":             AttrInputFrequency,
	"STATE":             AttrState,
	"LOCATION":          AttrLocation,
	"CALLSIGN":          AttrCall,
	"SPONSOR":           AttrSponsor,
	"SOURCE":            AttrSource,
	"AREA":              AttrArea,
	"COORDINATED":       AttrCoordinated,
	"OPEN":              AttrOpen,
	"CLOSED":            AttrClosed,
	"CTCSS_IN":          AttrCTCSSIn,
	"CTCSS_OUT":         AttrCTCSSOut,
	"DCS":               AttrDCS,
	"DCS_CODE":          AttrDCSCode,
	"AUTOPATCH":         AttrAutopatch,
	"EMERG_POWER":       AttrEmergencyPower,
	"LINKED":            AttrLinked,
	"LINK_FREQ":         AttrLinkFreq,
	"PORTABLE":          AttrPortable,
	"WIDE_AREA":         AttrWideArea,
	"LATITUDE":          AttrLatitude,
	"LONGITUDE":         AttrLongitude,
	"LATITUDE_DDMMSS":   AttrLatitudeDMS,
	"LONGITUDE_DDDMMSS": AttrLongitudeDMS,
	"AMSL_FEET":         AttrElevationFeet,
	"TX_POWER":          AttrTxPower,
	"ANT_INFO":          AttrAntennaInfo,
	"ERP":               AttrERP,
	"Active":            AttrActive,
	"Site Name":         AttrSiteName,
	"Coverage Area":     AttrCoverageArea,
	"Footnotes":         AttrFootnotes,
	"Contact Email":     AttrContactEmail,
	"Repeater Web Page": AttrWebPage,
	"Contact Phone":     AttrContactPhone,
	"Update Source":     AttrUpdateSource,
	"Coord. Notes":      AttrCoordNotes,
	"Mailing Address":   AttrMailingAddress,
	"NOTES":             AttrNotes,
	"UPDATE":            AttrUpdateDate,
	"CORD_DATE":         AttrCoordDate,
	"USE":               AttrUseType,
}

// listingNames maps listing, detail-page and legacy export names whose
// spelling differs from the canonical one.
var listingNames = map[string]string{
	"general_location": AttrLocation,
	"output_freq":      AttrOutputFrequency,
	"input_freq":       AttrInputFrequency,
	"coordinated_date": AttrCoordDate,
	"info_updated":     AttrUpdateDate,
	"coverage":         AttrCoverageArea,
	"website":          AttrWebPage,
	"mail_address":     AttrMailingAddress,
}

// feedColumnsFolded is feedColumns keyed by upper-cased header.
var feedColumnsFolded = map[string]string{}

func init() {
	for header, name := range feedColumns {
		feedColumnsFolded[strings.ToUpper(header)] = name
	}
}

// CanonicalName resolves a source field name into the canonical attribute
// set. Feed headers match exactly first, then case-insensitively.
func CanonicalName(source string) (string, bool) {
	source = strings.TrimSpace(source)
	if name, ok := feedColumns[source]; ok {
		return name, true
	}
	if name, ok := listingNames[source]; ok {
		return name, true
	}
	if canonicalNames[source] {
		return source, true
	}
	if name, ok := feedColumnsFolded[strings.ToUpper(source)]; ok {
		return name, true
	}
	return "", false
}
