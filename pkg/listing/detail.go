package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DetailFields maps detail-page topics to their text values.
type DetailFields map[string]string

// detailTopics is matched by substring, in order. "coordinates" must come
// before "coordinated".
var detailTopics = []struct {
	substr string
	key    string
}{
	{"output frequency", "output_freq"},
	{"input frequency", "input_freq"},
	{"elevation", "elevation"},
	{"coordinates", "coordinates"},
	{"coordinated", "coordinated_date"},
	{"info updated", "info_updated"},
	{"coverage", "coverage"},
	{"web site", "website"},
	{"features", "features"},
	{"erp", "erp"},
	{"mail address", "mail_address"},
	{"open/closed", "open_closed"},
	{"repeater callsign", "repeater_callsign"},
}

// ParseDetail reads key/value rows from every table on a detail page.
// Keys that match no known topic are dropped.
func ParseDetail(r io.Reader) (DetailFields, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail html: %w", err)
	}

	details := DetailFields{}
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		key := detailKey(cells.Eq(0).Text())
		if key == "" {
			return
		}
		details[key] = strings.TrimSpace(cells.Eq(1).Text())
	})
	return details, nil
}

func detailKey(label string) string {
	label = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(label, ":", "")))
	for _, t := range detailTopics {
		if strings.Contains(label, t.substr) {
			return t.key
		}
	}
	return ""
}
