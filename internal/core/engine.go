package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrInvalidMapping is returned when a caller-supplied mapping names an
// unknown field or a column outside the header row.
var ErrInvalidMapping = errors.New("invalid column mapping")

// ErrImportInterrupted is returned when the context ends while rows are
// being stored. It wraps the context error; the rows stored so far stay.
var ErrImportInterrupted = errors.New("import interrupted")

// EngineOptions configures an Engine. Zero values select the defaults.
type EngineOptions struct {
	Logger      *slog.Logger
	RepairTable RepairTable
	CountryCode string

	// Deduplicate skips rows whose formatted phone already exists for the
	// search. It applies to every input format.
	Deduplicate bool
}

// Engine imports lead spreadsheets into a LeadStore. It keeps no state
// between calls and is safe for concurrent use.
type Engine struct {
	store  LeadStore
	opts   EngineOptions
	logger *slog.Logger
}

// NewEngine creates an engine writing to store.
func NewEngine(store LeadStore, opts EngineOptions) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RepairTable == nil {
		opts.RepairTable = DefaultRepairTable
	}
	if opts.CountryCode == "" {
		opts.CountryCode = DefaultCountryCode
	}
	return &Engine{store: store, opts: opts, logger: opts.Logger}
}

// Report is the full outcome of an import, for hosts that record history
// and metrics. Result is what callers relay to clients.
type Report struct {
	Result    ImportResult
	Format    Format
	Separator rune
	Mapping   ColumnMapping
	Forced    bool
	Skipped   int
	Duration  time.Duration
}

// Import reads the upload and stores one lead per usable row under
// searchID. Whole-file problems (unsupported format, empty file, no data
// rows) return an error together with a zero-count result whose message
// explains the problem. Row-level problems only increase ErrorLeads.
func (e *Engine) Import(ctx context.Context, u Upload, searchID int64) (ImportResult, error) {
	report, err := e.Run(ctx, u, searchID)
	return report.Result, err
}

// Run is Import with the detailed report.
func (e *Engine) Run(ctx context.Context, u Upload, searchID int64) (Report, error) {
	start := time.Now()
	logger := loggerFrom(ctx, e.logger).With("search_id", searchID, "file", u.FileName)

	format, table, sep, err := e.read(u)
	if err != nil {
		return Report{Format: format, Result: failedResult(err)}, err
	}

	mapping, forced, err := e.resolve(table.Header(), u.Mapping)
	if err != nil {
		return Report{Format: format, Result: failedResult(err)}, err
	}
	if forced {
		logger.Warn("no name/email/phone header recognized, using columns 0-2",
			"headers", table.Header())
	}
	logger.Debug("columns resolved", "format", format, "mapping", mapping.Map())

	p := &rowProcessor{
		searchID:    searchID,
		mapping:     mapping,
		repair:      e.opts.RepairTable,
		countryCode: e.opts.CountryCode,
		dedupe:      e.opts.Deduplicate,
		store:       e.store,
		logger:      logger,
	}
	counts, err := p.process(ctx, table.DataRows())

	report := Report{
		Result:    counts.result(),
		Format:    format,
		Separator: sep,
		Mapping:   mapping,
		Forced:    forced,
		Skipped:   counts.skipped,
		Duration:  time.Since(start),
	}
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrImportInterrupted, err)
	}

	logger.Info("import finished",
		"imported", counts.imported,
		"errors", counts.errors,
		"duplicates", counts.duplicates,
		"skipped", counts.skipped,
		"duration", report.Duration,
	)
	return report, nil
}

func (e *Engine) read(u Upload) (Format, RawTable, rune, error) {
	if len(u.Data) == 0 {
		return "", nil, 0, ErrEmptyFile
	}
	format, err := DetectFormat(u)
	if err != nil {
		return "", nil, 0, err
	}
	table, sep, err := ReadTable(format, u.Data)
	return format, table, sep, err
}

func (e *Engine) resolve(header []string, overrides map[string]int) (ColumnMapping, bool, error) {
	mapping, forced := ResolveMapping(header)
	if len(overrides) == 0 {
		return mapping, forced, nil
	}
	if rejected := mapping.ApplyOverrides(overrides, len(header)); len(rejected) > 0 {
		return mapping, false, fmt.Errorf("%w: %s", ErrInvalidMapping, strings.Join(rejected, ", "))
	}
	return mapping, forced, nil
}

// failedResult is the zero-count result returned with whole-file errors.
func failedResult(err error) ImportResult {
	var msg string
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		msg = "Unsupported file type: upload a CSV or XLSX file"
	case errors.Is(err, ErrEmptyFile):
		msg = "The file is empty"
	case errors.Is(err, ErrNoDataRows):
		msg = "The file must contain a header row and at least one data row"
	case errors.Is(err, ErrInvalidMapping):
		msg = "The column mapping does not match the file: " + err.Error()
	default:
		msg = "The file could not be read: " + strings.TrimPrefix(err.Error(), ErrUnreadableFile.Error()+": ")
	}
	return ImportResult{Message: msg}
}
