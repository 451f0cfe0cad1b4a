// Package feed parses the raw delimited repeater export, including copies
// wrapped in HTML by the serving side.
package feed

import (
	"html"
	"strings"

	"github.com/rptrscope/rptrscope/pkg/repeater"
)

// HeaderPrefix is the leading column sequence of the feed's header line.
const HeaderPrefix = "BAND,OUTPUT,INPUT"

const (
	styledPreOpen = `<pre style="word-wrap: break-word; white-space: pre-wrap;">`
	plainPreOpen  = `<pre>`
	preClose      = `</pre>`
)

type extractor struct {
	name string
	fn   func(content string) (string, bool)
}

// extractors run in order; the first that locates data wins.
var extractors = []extractor{
	{"styled pre", func(c string) (string, bool) { return between(c, styledPreOpen, preClose) }},
	{"pre", func(c string) (string, bool) { return between(c, plainPreOpen, preClose) }},
	{"header scan", headerScan},
}

// Extract returns the delimited text embedded in content.
func Extract(content string) (string, error) {
	text, _, err := extract(content)
	return text, err
}

func extract(content string) (string, string, error) {
	for _, e := range extractors {
		if text, ok := e.fn(content); ok {
			return text, e.name, nil
		}
	}
	return "", "", &repeater.FormatError{Reason: "no delimited data found in feed response"}
}

func between(content, open, close string) (string, bool) {
	start := strings.Index(content, open)
	if start == -1 {
		return "", false
	}
	start += len(open)
	end := strings.Index(content[start:], close)
	if end == -1 {
		return "", false
	}
	return html.UnescapeString(strings.TrimSpace(content[start : start+end])), true
}

func headerScan(content string) (string, bool) {
	start := strings.Index(content, HeaderPrefix)
	if start == -1 {
		return "", false
	}
	text := content[start:]
	for _, tail := range []string{"</pre>", "</body>", "</html>"} {
		if i := strings.Index(text, tail); i != -1 {
			text = text[:i]
		}
	}
	return strings.TrimSpace(text), true
}
