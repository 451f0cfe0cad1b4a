// Package listing parses the HTML repeater listing and its per-repeater
// detail pages.
package listing

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// MinCells is the number of cells a data row needs to be parsed.
const MinCells = 8

const (
	OffsetMinus   = "-"
	OffsetPlus    = "+"
	OffsetSimplex = "simplex"
)

// offsetGlyphs is checked in order; the first marker found wins.
var offsetGlyphs = []struct {
	marker string
	symbol string
}{
	{"(**--**)", OffsetMinus},
	{"(**-**)", OffsetMinus},
	{"(**+**)", OffsetPlus},
	{"(**++**)", OffsetPlus},
}

var frequencyRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Result is the outcome of parsing one listing page.
type Result struct {
	Rows []repeater.ListingFields
	// Tables is the number of tables recognized as repeater tables.
	Tables int
	// Skipped counts data rows with fewer than MinCells cells.
	Skipped int
	// ForeignLinks holds detail links dropped because they leave the
	// listing's registrable domain.
	ForeignLinks []string
}

// ParseListing extracts repeater rows from the listing HTML. Relative detail
// links are resolved against baseURL. A page without any repeater table
// yields a *repeater.FormatError.
func ParseListing(r io.Reader, baseURL string) (*Result, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing html: %w", err)
	}

	res := &Result{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}
		header := strings.ToLower(rows.First().Text())
		if !strings.Contains(header, "freq") || !strings.Contains(header, "call") {
			return
		}
		res.Tables++

		rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < MinCells {
				res.Skipped++
				return
			}
			fields := parseRow(cells)
			if href, ok := cells.First().Find("a").First().Attr("href"); ok {
				link, err := resolveDetailURL(base, href)
				if err != nil {
					res.ForeignLinks = append(res.ForeignLinks, href)
				} else {
					fields.DetailURL = link
				}
			}
			res.Rows = append(res.Rows, fields)
		})
	})
	if res.Tables == 0 {
		return nil, &repeater.FormatError{Reason: "no repeater table found in listing"}
	}
	return res, nil
}

func parseRow(cells *goquery.Selection) repeater.ListingFields {
	text := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}
	freqCell := cells.First()
	fields := repeater.ListingFields{
		Frequency: frequencyRe.FindString(freqCell.Text()),
		Offset:    offsetSymbol(freqCell),
		Location:  text(1),
		Area:      text(2),
		SiteName:  text(3),
		Call:      text(4),
		Sponsor:   text(5),
		CTCSS:     text(6),
		Info:      text(7),
	}
	if cells.Length() > MinCells {
		fields.Links = text(MinCells)
		fields.HasLinks = true
	}
	return fields
}

func offsetSymbol(cell *goquery.Selection) string {
	inner, _ := cell.Html()
	content := inner + "\n" + cell.Text()
	for _, g := range offsetGlyphs {
		if strings.Contains(content, g.marker) {
			return g.symbol
		}
	}
	return OffsetSimplex
}

// resolveDetailURL makes href absolute and rejects links outside the base's
// registrable domain.
func resolveDetailURL(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", abs.Scheme)
	}
	if !sameSite(base.Hostname(), abs.Hostname()) {
		return "", fmt.Errorf("host %q is outside %q", abs.Hostname(), base.Hostname())
	}
	return abs.String(), nil
}

func sameSite(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return true
	}
	da, err := publicsuffix.Domain(a)
	if err != nil {
		return false
	}
	db, err := publicsuffix.Domain(b)
	if err != nil {
		return false
	}
	return da == db
}
