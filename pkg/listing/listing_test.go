package listing

import (
	"strings"
	"testing"

	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><body>
<table><tr><td>Navigation</td><td>Links</td></tr><tr><td>Home</td><td>About</td></tr></table>
<table>
<tr><th>Freq</th><th>Location</th><th>Area</th><th>Site</th><th>Call</th><th>Sponsor</th><th>CTCSS</th><th>Info</th><th>Links</th></tr>
<tr><td>146.620(**--**)<a href="rptr/w7abc.html">&sect;</a></td><td>Salt Lake City</td><td>Wasatch Front</td><td>Ensign Peak</td><td>W7ABC</td><td>Utah ARC</td><td>100.0</td><td>Wide coverage</td></tr>
<tr><td>447.200 (**+**)</td><td>Provo</td><td>Utah County</td><td>Lake Mtn</td><td>K7XYZ</td><td>UVARC</td><td>123.0</td><td></td><td>EchoLink 1234</td></tr>
<tr><td>146.520</td><td>Ogden</td></tr>
<tr><td>146.520</td><td>Ogden</td><td>Weber</td><td>Mt Ogden</td><td>N7OGD</td><td>Club</td><td></td><td>Simplex node</td></tr>
<tr><td>145.490(**-**)<a href="https://evil.example.com/x.html">&sect;</a></td><td>Moab</td><td>SE</td><td>Porcupine</td><td>W7MOA</td><td>Club</td><td>88.5</td><td></td></tr>
<tr><td>449.100(**++**)<a href="https://www.utahvhfs.org/rptr/n7xyz.html">&sect;</a></td><td>Logan</td><td>Cache</td><td>Mt Logan</td><td>N7XYZ</td><td>Club</td><td>103.5</td><td></td></tr>
</table>
<table><tr><th>Freq</th><th>Notes</th></tr><tr><td>1</td><td>2</td><td>3</td><td>4</td><td>5</td><td>6</td><td>7</td><td>8</td></tr></table>
</body></html>`

func TestParseListing(t *testing.T) {
	res, err := ParseListing(strings.NewReader(listingHTML), "https://utahvhfs.org/")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Tables)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Rows, 5)

	first := res.Rows[0]
	assert.Equal(t, "146.620", first.Frequency)
	assert.Equal(t, OffsetMinus, first.Offset)
	assert.Equal(t, "https://utahvhfs.org/rptr/w7abc.html", first.DetailURL)
	assert.Equal(t, "Salt Lake City", first.Location)
	assert.Equal(t, "Wasatch Front", first.Area)
	assert.Equal(t, "Ensign Peak", first.SiteName)
	assert.Equal(t, "W7ABC", first.Call)
	assert.Equal(t, "Utah ARC", first.Sponsor)
	assert.Equal(t, "100.0", first.CTCSS)
	assert.Equal(t, "Wide coverage", first.Info)
	assert.False(t, first.HasLinks)

	second := res.Rows[1]
	assert.Equal(t, "447.200", second.Frequency)
	assert.Equal(t, OffsetPlus, second.Offset)
	assert.Empty(t, second.DetailURL)
	assert.True(t, second.HasLinks)
	assert.Equal(t, "EchoLink 1234", second.Links)

	third := res.Rows[2]
	assert.Equal(t, OffsetSimplex, third.Offset)
	assert.Equal(t, "N7OGD", third.Call)

	foreign := res.Rows[3]
	assert.Equal(t, "W7MOA", foreign.Call, "row with foreign link is kept without its link")
	assert.Equal(t, OffsetMinus, foreign.Offset)
	assert.Empty(t, foreign.DetailURL)

	subdomain := res.Rows[4]
	assert.Equal(t, OffsetPlus, subdomain.Offset)
	assert.Equal(t, "https://www.utahvhfs.org/rptr/n7xyz.html", subdomain.DetailURL)
}

func TestParseListingDropsForeignDetailLinks(t *testing.T) {
	res, err := ParseListing(strings.NewReader(listingHTML), "https://utahvhfs.org/")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://evil.example.com/x.html"}, res.ForeignLinks)
	for _, row := range res.Rows {
		assert.NotContains(t, row.DetailURL, "evil.example.com")
	}
}

func TestParseListingNoRepeaterTable(t *testing.T) {
	res, err := ParseListing(strings.NewReader("<html><body><p>Maintenance</p></body></html>"), "https://utahvhfs.org/")
	assert.Nil(t, res)
	var formatErr *repeater.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Reason, "no repeater table")
}

func TestParseListingInvalidBase(t *testing.T) {
	_, err := ParseListing(strings.NewReader(listingHTML), "://nope")
	assert.Error(t, err)
}

func TestParseDetail(t *testing.T) {
	page := `<html><body>
<table>
<tr><td>Output Frequency:</td><td> 146.620 </td></tr>
<tr><td>Input Frequency:</td><td>146.020</td></tr>
<tr><td>Elevation:</td><td>8500 ft</td></tr>
<tr><td>Coordinates:</td><td>Lat: 40.5678&deg; N. Lon: 111.8765&deg; W.</td></tr>
<tr><td>Coordinated:</td><td>2019-04-01</td></tr>
<tr><td>Info Updated:</td><td>2023-02-11</td></tr>
<tr><td>Web Site:</td><td>http://example.org</td></tr>
<tr><td>Open/Closed:</td><td>Open</td></tr>
<tr><td>Trustee:</td><td>Somebody</td></tr>
<tr><td colspan="2">Notes only</td></tr>
</table>
<table><tr><td>Repeater Callsign</td><td>W7ABC</td></tr></table>
</body></html>`

	details, err := ParseDetail(strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, DetailFields{
		"output_freq":       "146.620",
		"input_freq":        "146.020",
		"elevation":         "8500 ft",
		"coordinates":       "Lat: 40.5678° N. Lon: 111.8765° W.",
		"coordinated_date":  "2019-04-01",
		"info_updated":      "2023-02-11",
		"website":           "http://example.org",
		"open_closed":       "Open",
		"repeater_callsign": "W7ABC",
	}, details)
}

func TestParseDetailEmptyPage(t *testing.T) {
	details, err := ParseDetail(strings.NewReader("not html at all"))
	require.NoError(t, err)
	assert.Empty(t, details)
}
