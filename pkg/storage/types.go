package storage

import (
	"errors"
	"time"

	"github.com/rptrscope/rptrscope/pkg/repeater"
)

// ErrNotFound is returned by Read when the export file does not exist.
var ErrNotFound = errors.New("export file not found")

// SchemaVersion identifies the generation of an export file.
type SchemaVersion string

const (
	// SchemaLegacy files carry a combined coordinate string and no
	// provenance column.
	SchemaLegacy SchemaVersion = "v1"
	// SchemaCanonical files carry decimal lat/lon and the provenance column.
	SchemaCanonical SchemaVersion = "v2"
)

// Snapshot is the content of an export file.
type Snapshot struct {
	Records       []repeater.Record
	SchemaVersion SchemaVersion
	LastModified  time.Time
}

// Logger is the subset of logging the exporter needs.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// preferredColumns lead the export header when present.
var preferredColumns = []string{
	repeater.AttrScraperVersion,
	repeater.AttrCall,
	repeater.AttrFrequency,
	repeater.AttrOutputFrequency,
	repeater.AttrInputFrequency,
	repeater.AttrOffset,
	repeater.AttrBand,
	repeater.AttrBandName,
	repeater.AttrLocation,
	repeater.AttrSiteName,
	repeater.AttrSponsor,
	repeater.AttrArea,
	repeater.AttrCTCSS,
	repeater.AttrCTCSSIn,
	repeater.AttrCTCSSOut,
	repeater.AttrDCSCode,
	repeater.AttrLat,
	repeater.AttrLon,
	repeater.AttrLatitude,
	repeater.AttrLongitude,
	repeater.AttrCoordinates,
	repeater.AttrElevation,
	repeater.AttrElevationFeet,
	repeater.AttrActive,
	repeater.AttrOpen,
	repeater.AttrClosed,
	repeater.AttrOpenClosed,
	repeater.AttrWideArea,
	repeater.AttrLinked,
	repeater.AttrEmergencyPower,
	repeater.AttrAutopatch,
	repeater.AttrPortable,
	repeater.AttrFeatures,
	repeater.AttrCoverageArea,
	repeater.AttrNotes,
	repeater.AttrContactEmail,
	repeater.AttrWebPage,
	repeater.AttrContactPhone,
	repeater.AttrMailingAddress,
}
