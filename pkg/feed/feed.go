package feed

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/rptrscope/rptrscope/pkg/repeater"
)

// StatusColumn is the header of the active-state column.
const StatusColumn = "Active"

// Row is one feed row keyed by the feed's own headers.
type Row map[string]string

// Stats are the per-run diagnostic counters.
type Stats struct {
	Total     int `json:"total"`
	Retained  int `json:"retained"`
	Discarded int `json:"discarded"`
	Malformed int `json:"malformed"`
}

// Result holds the retained rows of one feed document.
type Result struct {
	Rows     []Row
	Stats    Stats
	Strategy string
	// Errors holds the row-level failures that were skipped.
	Errors []*repeater.ParseError
}

// Parse extracts, splits and filters a feed document. Only rows whose status
// is Y (active) or T (temporarily off the air) are retained.
func Parse(content string) (*Result, error) {
	text, strategy, err := extract(content)
	if err != nil {
		return nil, err
	}

	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, &repeater.FormatError{Reason: "feed has no data rows"}
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, &repeater.FormatError{Reason: "unreadable header line: " + err.Error()}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	status := statusIndex(header)

	res := &Result{Strategy: strategy}
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		res.Stats.Total++
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			res.Stats.Malformed++
			res.Errors = append(res.Errors, &repeater.ParseError{Line: line, Err: err})
			continue
		}
		if !retained(fields, status) {
			res.Stats.Discarded++
			continue
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			} else {
				row[name] = ""
			}
		}
		res.Rows = append(res.Rows, row)
		res.Stats.Retained++
	}
	return res, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func statusIndex(header []string) int {
	for i, name := range header {
		if name == StatusColumn {
			return i
		}
	}
	for i, name := range header {
		if strings.EqualFold(name, StatusColumn) {
			return i
		}
	}
	return -1
}

func retained(fields []string, status int) bool {
	if status < 0 || status >= len(fields) {
		return false
	}
	switch strings.ToUpper(strings.TrimSpace(fields[status])) {
	case "Y", "T":
		return true
	}
	return false
}
