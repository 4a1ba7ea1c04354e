package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable parses an upload into a RawTable using the reader for format.
// The separator is only meaningful for CSV and is 0 otherwise.
func ReadTable(format Format, data []byte) (RawTable, rune, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, 0, ErrEmptyFile
	}

	switch format {
	case FormatCSV:
		return readCSV(data)
	case FormatXLSX:
		table, err := readXLSX(data)
		return table, 0, err
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func readCSV(data []byte) (RawTable, rune, error) {
	text := decodeText(data)
	sep := DetectSeparator(text)

	records, err := parseCSV(text, sep)
	if err != nil {
		return nil, sep, fmt.Errorf("%w: parse csv: %w", ErrUnreadableFile, err)
	}
	if len(records) < 2 {
		return nil, sep, ErrNoDataRows
	}
	return RawTable(records), sep, nil
}

func parseCSV(text string, sep rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader([]byte(text)))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	// Blank lines are dropped by encoding/csv; rows of bare separators
	// (";;;") come through and are skipped by the row processor.
	return r.ReadAll()
}

// decodeText returns the file content as UTF-8. Files that are not valid
// UTF-8 are assumed to be Windows-1252, the default encoding of Excel CSV
// exports on Portuguese Windows installs.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(sanitizeUTF8(data))
	}
	return string(decoded)
}

// sanitizeUTF8 replaces invalid bytes with U+FFFD, which RepairText later
// strips.
func sanitizeUTF8(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.WriteRune(r)
		}
		data = data[size:]
	}

	return buf.Bytes()
}

// readXLSX reads the first sheet of a workbook as a text matrix.
func readXLSX(data []byte) (RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoDataRows
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrUnreadableFile, sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrNoDataRows
	}
	return RawTable(rows), nil
}
