// Package csvio implements the flat CSV format used for catalog, order
// and supplier import/export: comma delimited, mandatory header row,
// double-quote escaping ("" for a literal quote) for fields containing
// commas or quotes. Quoted fields never span lines, so the codec works
// strictly line by line.
package csvio

import (
	"fmt"
	"strings"
	"time"

	"dropflow-admin/internal/apperr"
)

// Row maps header names to raw field values for one data line.
type Row map[string]string

// Parse splits CSV text into header names and data rows. It fails with a
// format error when the text has fewer than two lines or when any of
// requiredFields is missing from the header; per-row problems are the
// caller's concern.
func Parse(text string, requiredFields []string) ([]string, []Row, error) {
	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return nil, nil, apperr.Format("CSV must contain a header row and at least one data row")
	}

	header := splitLine(lines[0])
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for _, field := range requiredFields {
		if !contains(header, field) {
			return nil, nil, apperr.Format("missing required field: %s", field)
		}
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := splitLine(line)
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(values) {
				row[name] = strings.TrimSpace(values[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// Marshal assembles CSV text from a header and stringified records,
// escaping fields that contain commas or quotes.
func Marshal(headers []string, records [][]string) string {
	var b strings.Builder
	writeLine(&b, headers)
	for _, record := range records {
		b.WriteByte('\n')
		writeLine(&b, record)
	}
	return b.String()
}

func writeLine(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escape(field))
	}
}

func escape(field string) string {
	if strings.ContainsAny(field, ",\"") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

// JoinList renders an array-valued field for export.
func JoinList(values []string) string {
	return strings.Join(values, "; ")
}

// SplitList parses an array-valued field back into its elements.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Filename returns the download name for an entity export.
func Filename(entity string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", entity, now.Format("2006-01-02"))
}

// splitLine splits one CSV line into raw fields, honoring double-quote
// escaping. An unterminated quote runs to the end of the line.
func splitLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes && c == '"' && i+1 < len(line) && line[i+1] == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	fields = append(fields, field.String())
	return fields
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
