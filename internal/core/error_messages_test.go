package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"unsupported format", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ".pdf"), "FILE002"},
		{"empty file", ErrEmptyFile, "FILE005"},
		{"no data rows", ErrNoDataRows, "IMP001"},
		{"invalid mapping", fmt.Errorf("%w: colour", ErrInvalidMapping), "IMP002"},
		{"unknown search", fmt.Errorf("search 42: %w", ErrSearchNotFound), "IMP003"},
		{"busy", ErrTooManyImports, "UPL002"},
		{"import not found", ErrImportNotFound, "UPL003"},
		{"cancelled import", fmt.Errorf("import interrupted: %w", context.Canceled), "UPL004"},
		{"timed out import", fmt.Errorf("import interrupted: %w", context.DeadlineExceeded), "UPL005"},
		{"csv parse error", errors.New("parse csv: record on line 3: wrong number of fields"), "FILE003"},
		{"duplicate key", errors.New("ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), "DB004"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"bad multipart body", errors.New("invalid multipart form: unexpected EOF"), "FILE006"},
		{"non numeric search", errors.New("invalid search id"), "IMP004"},
		{"case insensitive", errors.New("FILE IS EMPTY"), "FILE005"},
		{"unknown error", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Action == "" {
				t.Errorf("MapError(%v) has no action", tt.err)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrEmptyFile)
	want := "The uploaded file is empty (Code: FILE005). Please upload a file with a header row and lead rows"
	if got != want {
		t.Errorf("FormatUserError = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrTooManyImports) {
		t.Error("ErrTooManyImports should be user facing")
	}
	if IsUserFacing(errors.New("segfault in module xyz")) {
		t.Error("unknown errors should not be user facing")
	}
}
