// Package storage writes the canonical record set to a delimited export file
// and reads both export generations back.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rptrscope/rptrscope/pkg/repeater"
)

// Export writes records to path, replacing any previous export in one
// rename. An empty record set leaves the existing file untouched.
func Export(records []repeater.Record, path string, log Logger) error {
	if log == nil {
		log = nopLogger{}
	}
	if len(records) == 0 {
		log.Warnf("No repeater data to save, keeping %s", path)
		return nil
	}

	columns := Columns(records)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = writeCSV(tmp, columns, records); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync export: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set export permissions: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace export: %w", err)
	}

	log.Infof("Saved %d repeaters to %s", len(records), path)
	return nil
}

// Columns returns the export header for records: the preferred columns that
// are present, then every other present column in lexical order.
func Columns(records []repeater.Record) []string {
	present := map[string]bool{}
	for _, rec := range records {
		for k := range rec.Attrs {
			present[k] = true
		}
		if rec.Position != nil {
			present[repeater.AttrLat] = true
			present[repeater.AttrLon] = true
		}
		if rec.Provenance != "" {
			present[repeater.AttrScraperVersion] = true
		}
	}

	columns := make([]string, 0, len(present))
	for _, c := range preferredColumns {
		if present[c] {
			columns = append(columns, c)
			delete(present, c)
		}
	}
	rest := make([]string, 0, len(present))
	for c := range present {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func writeCSV(w io.Writer, columns []string, records []repeater.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		lat, lon, hasPos := rec.LatLon()
		for i, c := range columns {
			switch {
			case c == repeater.AttrLat && hasPos:
				row[i] = repeater.FormatCoord(lat)
			case c == repeater.AttrLon && hasPos:
				row[i] = repeater.FormatCoord(lon)
			case c == repeater.AttrScraperVersion && rec.Provenance != "":
				row[i] = string(rec.Provenance)
			default:
				row[i] = rec.Attrs[c]
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read loads an export file of either generation.
func Read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat export: %w", err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Snapshot{SchemaVersion: SchemaLegacy, LastModified: info.ModTime()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}

	schema := SchemaLegacy
	for i, h := range header {
		name, ok := repeater.CanonicalName(h)
		if !ok {
			name = h
		}
		header[i] = name
		if name == repeater.AttrScraperVersion {
			schema = SchemaCanonical
		}
	}

	out := &Snapshot{SchemaVersion: schema, LastModified: info.ModTime()}
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}
		out.Records = append(out.Records, decodeRow(header, fields, schema))
	}
	return out, nil
}

func decodeRow(header, fields []string, schema SchemaVersion) repeater.Record {
	rec := repeater.Record{Attrs: make(map[string]string, len(header)), Provenance: repeater.ProvenanceListing}
	var latText, lonText string
	for i, name := range header {
		if i >= len(fields) || fields[i] == "" {
			continue
		}
		switch name {
		case repeater.AttrLat:
			latText = fields[i]
		case repeater.AttrLon:
			lonText = fields[i]
		case repeater.AttrScraperVersion:
			rec.Provenance = repeater.Provenance(fields[i])
		default:
			rec.Attrs[name] = fields[i]
		}
	}

	numeric := func() bool {
		lat, latOK := repeater.ParseNumber(latText)
		lon, lonOK := repeater.ParseNumber(lonText)
		if latOK && lonOK {
			rec.Position = repeater.NewPosition(lat, lon)
		}
		return rec.Position != nil
	}

	if schema == SchemaCanonical && numeric() {
		return rec
	}
	if pos, ok := repeater.ParseCombinedCoordinates(rec.Attrs[repeater.AttrCoordinates]); ok {
		rec.Position = pos
		return rec
	}
	if schema == SchemaLegacy && numeric() {
		return rec
	}

	// Unusable lat/lon text is kept as written.
	if latText != "" {
		rec.Attrs[repeater.AttrLat] = latText
	}
	if lonText != "" {
		rec.Attrs[repeater.AttrLon] = lonText
	}
	return rec
}
