// Package codec implements the CSV/TSV record-and-field codec described
// as an external collaborator to the spatial parser: a pure text <->
// [][]string transform with no grid-store dependency (spec §6's "CSV/TSV
// surface"). internal/grid uses Decode to load .csv/.tsv sources.
package codec

import "strings"

// Dialect selects the field separator.
type Dialect rune

const (
	CSV Dialect = ','
	TSV Dialect = '\t'
)

// Decode parses raw text into records per the three literal rules: the
// record separator is '\n' ('\r\n' normalizes to '\n' first), fields are
// split on the dialect's separator, and a double-quoted field may embed
// the separator, quotes (doubled), or newlines. A lone trailing newline
// does not produce a spurious final empty record; an explicit blank line
// does, preserving empty trailing rows.
//
// encoding/csv is not used here: its Reader silently skips blank lines,
// which would drop exactly the empty trailing rows this format needs to
// preserve (see DESIGN.md).
func Decode(text string, d Dialect) ([][]string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	sep := rune(d)

	var records [][]string
	var record []string
	var field strings.Builder
	inQuotes := false
	freshRecord := true

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	endField := func() {
		record = append(record, field.String())
		field.Reset()
	}
	endRecord := func() {
		endField()
		records = append(records, record)
		record = nil
		freshRecord = true
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes:
			if r == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteRune(r)
		case r == '"' && field.Len() == 0:
			inQuotes = true
			freshRecord = false
		case r == sep:
			endField()
			freshRecord = false
		case r == '\n':
			endRecord()
		default:
			field.WriteRune(r)
			freshRecord = false
		}
	}

	if !freshRecord {
		endRecord()
	}
	return records, nil
}

// Encode renders records back to text, quoting any field that contains
// the separator, a double quote, or a newline (internal quotes doubled),
// terminating every record with '\n'. Decode(Encode(records)) returns the
// records unchanged when no record is empty and no field contains "\r\n";
// Encode(Decode(s)) need not reproduce s byte for byte (a missing final
// newline is added and "\r\n" becomes "\n").
func Encode(records [][]string, d Dialect) string {
	sep := rune(d)
	var out strings.Builder
	for _, record := range records {
		for i, field := range record {
			if i > 0 {
				out.WriteRune(sep)
			}
			out.WriteString(encodeField(field, sep))
		}
		out.WriteByte('\n')
	}
	return out.String()
}

func encodeField(field string, sep rune) string {
	if !strings.ContainsRune(field, sep) && !strings.ContainsAny(field, "\"\n") {
		return field
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range field {
		if r == '"' {
			b.WriteByte('"')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
