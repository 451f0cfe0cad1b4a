// Package ingest runs one ingestion pass end to end: fetch, parse,
// normalize and export.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rptrscope/rptrscope/pkg/feed"
	"github.com/rptrscope/rptrscope/pkg/listing"
	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/rptrscope/rptrscope/pkg/whttp"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Fetcher retrieves a document body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Stats are the diagnostic counters of one run.
type Stats struct {
	Total         int `json:"total"`
	Retained      int `json:"retained"`
	Discarded     int `json:"discarded"`
	Malformed     int `json:"malformed"`
	DetailFetched int `json:"detail_fetched,omitempty"`
	DetailFailed  int `json:"detail_failed,omitempty"`
	DroppedLinks  int `json:"dropped_links,omitempty"`
}

// Source is one ingestion strategy.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]repeater.Record, Stats, error)
}

// FeedSource reads the raw delimited feed.
type FeedSource struct {
	Client  Fetcher
	FeedURL string
	Log     Logger
}

func (s *FeedSource) Name() string { return "feed" }

func (s *FeedSource) Fetch(ctx context.Context) ([]repeater.Record, Stats, error) {
	log := s.Log
	if log == nil {
		log = nopLogger{}
	}

	log.Infof("Fetching raw repeater feed from %s", s.FeedURL)
	body, err := s.Client.Fetch(ctx, s.FeedURL)
	if err != nil {
		var terr *whttp.TransportError
		if errors.As(err, &terr) && terr.Title != "" {
			log.Errorf("Feed returned %d (%s)", terr.StatusCode, terr.Title)
		}
		return nil, Stats{}, fmt.Errorf("failed to fetch feed: %w", err)
	}

	res, err := feed.Parse(string(body))
	if err != nil {
		return nil, Stats{}, err
	}
	for _, perr := range res.Errors {
		log.Debugf("Skipping feed row: %v", perr)
	}

	records := make([]repeater.Record, 0, len(res.Rows))
	for _, row := range res.Rows {
		records = append(records, repeater.FromFeedRow(row))
	}

	stats := Stats{
		Total:     res.Stats.Total,
		Retained:  res.Stats.Retained,
		Discarded: res.Stats.Discarded,
		Malformed: res.Stats.Malformed,
	}
	log.Infof("Processed %d total entries (%s)", stats.Total, res.Strategy)
	log.Infof("Active/Temp off repeaters: %d", stats.Retained)
	log.Infof("Inactive repeaters filtered out: %d", stats.Discarded)
	return records, stats, nil
}

// ListingSource reads the HTML listing and follows each detail link.
type ListingSource struct {
	Client     Fetcher
	Pacer      *whttp.Pacer
	ListingURL string
	BaseURL    string
	Log        Logger
}

func (s *ListingSource) Name() string { return "listing" }

func (s *ListingSource) Fetch(ctx context.Context) ([]repeater.Record, Stats, error) {
	log := s.Log
	if log == nil {
		log = nopLogger{}
	}
	pacer := s.Pacer
	if pacer == nil {
		pacer = whttp.NewPacer(whttp.MinPace)
	}

	log.Infof("Fetching repeater listing from %s", s.ListingURL)
	body, err := s.Client.Fetch(ctx, s.ListingURL)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to fetch listing: %w", err)
	}

	res, err := listing.ParseListing(bytes.NewReader(body), s.BaseURL)
	if err != nil {
		return nil, Stats{}, err
	}
	for _, link := range res.ForeignLinks {
		log.Debugf("Dropping off-site detail link %s", link)
	}

	stats := Stats{
		Total:        len(res.Rows) + res.Skipped,
		Retained:     len(res.Rows),
		Malformed:    res.Skipped,
		DroppedLinks: len(res.ForeignLinks),
	}

	records := make([]repeater.Record, 0, len(res.Rows))
	for _, row := range res.Rows {
		var details listing.DetailFields
		if row.DetailURL != "" {
			if err := pacer.Wait(ctx); err != nil {
				return nil, stats, err
			}
			log.Debugf("Scraping details for %s on %s...", row.Call, row.Frequency)
			details, err = s.fetchDetail(ctx, row.DetailURL)
			pacer.Done()
			if err != nil {
				log.Warnf("Error scraping details from %s: %v", row.DetailURL, err)
				stats.DetailFailed++
			} else {
				stats.DetailFetched++
			}
		}
		records = append(records, repeater.FromListing(row, details))
	}
	return records, stats, nil
}

func (s *ListingSource) fetchDetail(ctx context.Context, url string) (listing.DetailFields, error) {
	body, err := s.Client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return listing.ParseDetail(bytes.NewReader(body))
}
