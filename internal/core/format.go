package core

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

var (
	// ErrUnsupportedFormat is returned before any parsing when an upload is
	// neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyFile is returned when an upload has no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrNoDataRows is returned when a file has a header but no data rows.
	ErrNoDataRows = errors.New("file has no data rows")

	// ErrUnreadableFile wraps parser failures such as broken CSV quoting or
	// a corrupt workbook.
	ErrUnreadableFile = errors.New("file could not be read")
)

var csvMIMETypes = map[string]bool{
	"text/csv":                    true,
	"text/plain":                  true,
	"text/comma-separated-values": true,
	"application/csv":             true,
	// Browsers on Windows send this for .csv when Excel is installed.
	"application/vnd.ms-excel": true,
}

const xlsxMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var zipMagic = []byte("PK\x03\x04")

// DetectFormat picks the reader for an upload from its file extension and
// declared MIME type, then confirms the choice against the file's magic
// bytes. Binary content that is not an XLSX workbook is always rejected.
func DetectFormat(u Upload) (Format, error) {
	ext := strings.ToLower(filepath.Ext(u.FileName))
	mediaType := ""
	if u.ContentType != "" {
		if mt, _, err := mime.ParseMediaType(u.ContentType); err == nil {
			mediaType = strings.ToLower(mt)
		}
	}

	kind, _ := filetype.Match(u.Data)
	sniffed := kind.Extension

	wantsXLSX := ext == ".xlsx" || mediaType == xlsxMIMEType
	wantsCSV := ext == ".csv" || ext == ".txt" || (ext == "" && csvMIMETypes[mediaType])

	switch {
	case sniffed == "xlsx":
		return FormatXLSX, nil
	case wantsXLSX && bytes.HasPrefix(u.Data, zipMagic):
		// filetype only recognizes workbooks whose zip entries come in the
		// usual order; excelize decides for the rest.
		return FormatXLSX, nil
	case wantsCSV && kind == filetype.Unknown:
		return FormatCSV, nil
	}

	declared := ext
	if declared == "" {
		declared = mediaType
	}
	if sniffed != "" {
		return "", fmt.Errorf("%w: %s (content looks like %s)", ErrUnsupportedFormat, declared, sniffed)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, declared)
}
