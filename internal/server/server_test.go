package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rptrscope/rptrscope/pkg/ingest"
	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/rptrscope/rptrscope/pkg/storage"
	"github.com/tidwall/gjson"
)

type fakeBackend struct {
	records  []repeater.Record
	schema   storage.SchemaVersion
	modified time.Time
	loadErr  error
	startErr error
	started  int
	path     string
	status   ingest.Status
}

func (f *fakeBackend) StartIngestion(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	return nil
}

func (f *fakeBackend) LoadExport() ([]repeater.Record, storage.SchemaVersion, time.Time, error) {
	return f.records, f.schema, f.modified, f.loadErr
}

func (f *fakeBackend) ExportFilePath() (string, bool) {
	return f.path, f.path != ""
}

func (f *fakeBackend) Status() ingest.Status {
	return f.status
}

func serve(t *testing.T, b Backend, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	New(b).Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRepeatersEndpoint(t *testing.T) {
	b := &fakeBackend{
		records: []repeater.Record{
			{Attrs: map[string]string{repeater.AttrCall: "W7ABC", repeater.AttrBandName: "2m"}, Position: repeater.NewPosition(40.5, -111.9), Provenance: repeater.ProvenanceFeed},
			{Attrs: map[string]string{repeater.AttrCall: "K7XYZ", repeater.AttrBandName: "70cm"}, Provenance: repeater.ProvenanceFeed},
		},
		schema:   storage.SchemaCanonical,
		modified: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}

	rec := serve(t, b, http.MethodGet, "/api/repeaters")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if got := gjson.Get(body, "count").Int(); got != 2 {
		t.Fatalf("count = %d", got)
	}
	if got := gjson.Get(body, "data_version").String(); got != "v2" {
		t.Fatalf("data_version = %q", got)
	}
	if got := gjson.Get(body, "last_updated").String(); got != "2026-10-01T12:00:00Z" {
		t.Fatalf("last_updated = %q", got)
	}
	if got := gjson.Get(body, "repeaters.0.lat").Float(); got != 40.5 {
		t.Fatalf("lat = %v", got)
	}
	if gjson.Get(body, "repeaters.1.lat").Exists() {
		t.Fatalf("record without position has lat")
	}

	rec = serve(t, b, http.MethodGet, "/api/repeaters?band=70CM")
	body = rec.Body.String()
	if got := gjson.Get(body, "count").Int(); got != 1 {
		t.Fatalf("filtered count = %d", got)
	}
	if got := gjson.Get(body, "repeaters.0.call").String(); got != "K7XYZ" {
		t.Fatalf("filtered call = %q", got)
	}
}

func TestRepeatersEndpointWithoutExport(t *testing.T) {
	b := &fakeBackend{loadErr: storage.ErrNotFound}
	rec := serve(t, b, http.MethodGet, "/api/repeaters")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !gjson.Get(rec.Body.String(), "error").Exists() {
		t.Fatalf("missing error field: %s", rec.Body.String())
	}
}

func TestScrapeEndpoint(t *testing.T) {
	b := &fakeBackend{}
	rec := serve(t, b, http.MethodPost, "/api/scrape")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	if !gjson.Get(rec.Body.String(), "started").Bool() || b.started != 1 {
		t.Fatalf("run not started: %s", rec.Body.String())
	}

	b.startErr = ingest.ErrRunInProgress
	rec = serve(t, b, http.MethodPost, "/api/scrape")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	rec = serve(t, b, http.MethodGet, "/api/scrape")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	b := &fakeBackend{status: ingest.Status{
		InProgress: true,
		Last:       &ingest.RunResult{Source: "feed", Count: 42, Error: "boom"},
	}}
	body := serve(t, b, http.MethodGet, "/api/status").Body.String()
	if !gjson.Get(body, "in_progress").Bool() {
		t.Fatalf("in_progress missing: %s", body)
	}
	if got := gjson.Get(body, "last.count").Int(); got != 42 {
		t.Fatalf("last.count = %d", got)
	}
	if got := gjson.Get(body, "last.error").String(); got != "boom" {
		t.Fatalf("last.error = %q", got)
	}
}

func TestDownloadEndpoint(t *testing.T) {
	rec := serve(t, &fakeBackend{}, http.MethodGet, "/api/download")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	path := filepath.Join(t.TempDir(), "utah_repeaters.csv")
	if err := os.WriteFile(path, []byte("scraper_version,call\nv2,W7ABC\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec = serve(t, &fakeBackend{path: path}, http.MethodGet, "/api/download")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="utah_repeaters.csv"` {
		t.Fatalf("content disposition = %q", got)
	}
	if rec.Body.String() != "scraper_version,call\nv2,W7ABC\n" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
