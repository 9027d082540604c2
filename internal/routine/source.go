package routine

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
)

var (
	sheetsIDRe  = regexp.MustCompile(`(?i)^https://docs\.google\.com/spreadsheets/d/([^/?#]+)`)
	sheetsGidRe = regexp.MustCompile(`(?i)[?&#]gid=([0-9]+)`)
)

// ExportURL turns a Google Sheets share link into its CSV export form,
// keeping the tab's gid. Other URLs are returned unchanged.
func ExportURL(url string) string {
	m := sheetsIDRe.FindStringSubmatch(url)
	if m == nil {
		return url
	}
	out := "https://docs.google.com/spreadsheets/d/" + m[1] + "/export?format=csv"
	if g := sheetsGidRe.FindStringSubmatch(url); g != nil {
		out += "&gid=" + g[1]
	}
	return out
}

// ReadGrid reads CSV text into a Grid. Quoting is lenient and rows may have
// any number of fields; a malformed record is skipped rather than failing
// the whole sheet.
func ReadGrid(r io.Reader) (Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read routine csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var grid Grid
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return grid, fmt.Errorf("read routine csv: %w", err)
		}
		grid = append(grid, row)
	}
	return grid, nil
}
