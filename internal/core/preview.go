package core

import (
	"context"
	"time"
)

// PreviewSummary contains the would-be counts of an import.
type PreviewSummary struct {
	TotalRows       int `json:"totalRows"`
	WouldImport     int `json:"wouldImport"`
	ErrorRows       int `json:"errorRows"`
	SkippedRows     int `json:"skippedRows"`
	DuplicateInFile int `json:"duplicateInFile"`
	SuspectPhones   int `json:"suspectPhones"`
}

// RowPreview is a normalized lead as it would be stored.
type RowPreview struct {
	LineNumber int        `json:"lineNumber"`
	Lead       LeadRecord `json:"lead"`
}

// ErrorPreview is a row that would be rejected.
type ErrorPreview struct {
	LineNumber int      `json:"lineNumber"`
	Values     []string `json:"values"`
	Reason     string   `json:"reason"`
}

// DuplicatePreview is a phone number that appears on several rows.
type DuplicatePreview struct {
	Phone       string `json:"phone"`
	LineNumbers []int  `json:"lineNumbers"`
}

// PreviewResponse is the result of a dry run.
type PreviewResponse struct {
	Format           Format             `json:"format"`
	Separator        string             `json:"separator,omitempty"`
	Headers          []string           `json:"headers"`
	Mapping          map[string]int     `json:"mapping"`
	ForcedMapping    bool               `json:"forcedMapping"`
	Summary          PreviewSummary     `json:"summary"`
	Samples          []RowPreview       `json:"samples"`
	ErrorSamples     []ErrorPreview     `json:"errorSamples"`
	DuplicateSamples []DuplicatePreview `json:"duplicateSamples"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
}

// Sample limits
const (
	maxRowSamples       = 10
	maxErrorSamples     = 20
	maxDuplicateSamples = 10
)

// Preview runs format detection, column resolution and row normalization
// without touching the store. Duplicates are only detected within the file.
func (e *Engine) Preview(ctx context.Context, u Upload) (*PreviewResponse, error) {
	start := time.Now()

	format, table, sep, err := e.read(u)
	if err != nil {
		return nil, err
	}
	mapping, forced, err := e.resolve(table.Header(), u.Mapping)
	if err != nil {
		return nil, err
	}

	resp := &PreviewResponse{
		Format:           format,
		Headers:          table.Header(),
		Mapping:          mapping.Map(),
		ForcedMapping:    forced,
		Samples:          []RowPreview{},
		ErrorSamples:     []ErrorPreview{},
		DuplicateSamples: []DuplicatePreview{},
	}
	if sep != 0 {
		resp.Separator = string(sep)
	}

	p := &rowProcessor{
		mapping:     mapping,
		repair:      e.opts.RepairTable,
		countryCode: e.opts.CountryCode,
		logger:      loggerFrom(ctx, e.logger),
	}

	phoneLines := make(map[string][]int)
	var phoneOrder []string

	for i, row := range table.DataRows() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNum := i + 2
		resp.Summary.TotalRows++

		lead, ok := p.buildLead(lineNum, row)
		if !ok {
			resp.Summary.SkippedRows++
			continue
		}
		if !lead.Identifiable() {
			resp.Summary.ErrorRows++
			if len(resp.ErrorSamples) < maxErrorSamples {
				resp.ErrorSamples = append(resp.ErrorSamples, ErrorPreview{
					LineNumber: lineNum,
					Values:     row,
					Reason:     "no name, email or phone",
				})
			}
			continue
		}
		if PhoneSuspect(lead.Phone) {
			resp.Summary.SuspectPhones++
		}

		if lead.Phone != "" {
			if _, seen := phoneLines[lead.Phone]; !seen {
				phoneOrder = append(phoneOrder, lead.Phone)
			} else if e.opts.Deduplicate {
				resp.Summary.DuplicateInFile++
				phoneLines[lead.Phone] = append(phoneLines[lead.Phone], lineNum)
				continue
			}
			phoneLines[lead.Phone] = append(phoneLines[lead.Phone], lineNum)
		}

		resp.Summary.WouldImport++
		if len(resp.Samples) < maxRowSamples {
			resp.Samples = append(resp.Samples, RowPreview{LineNumber: lineNum, Lead: lead})
		}
	}

	for _, phone := range phoneOrder {
		lines := phoneLines[phone]
		if len(lines) < 2 {
			continue
		}
		if len(resp.DuplicateSamples) >= maxDuplicateSamples {
			break
		}
		resp.DuplicateSamples = append(resp.DuplicateSamples, DuplicatePreview{Phone: phone, LineNumbers: lines})
	}

	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}
