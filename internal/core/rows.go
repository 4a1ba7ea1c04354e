package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// RowDisposition is what happened to a single data row.
type RowDisposition string

const (
	RowImported  RowDisposition = "imported"
	RowDuplicate RowDisposition = "duplicate"
	RowError     RowDisposition = "error"
	RowSkipped   RowDisposition = "skipped"
)

// cityStateSeparators split a combined "Cidade/UF" value, tried in order.
var cityStateSeparators = []string{":", "-", "/", "|", ","}

// rowProcessor turns data rows into LeadRecords and hands them to a store.
type rowProcessor struct {
	searchID    int64
	mapping     ColumnMapping
	repair      RepairTable
	countryCode string
	dedupe      bool
	store       LeadStore
	logger      *slog.Logger
}

// rowCounts accumulates dispositions across a table.
type rowCounts struct {
	imported   int
	errors     int
	duplicates int
	skipped    int
}

func (c *rowCounts) add(d RowDisposition) {
	switch d {
	case RowImported:
		c.imported++
	case RowDuplicate:
		c.duplicates++
	case RowError:
		c.errors++
	case RowSkipped:
		c.skipped++
	}
}

func (c rowCounts) result() ImportResult {
	return ImportResult{
		ImportedLeads:  c.imported,
		ErrorLeads:     c.errors,
		DuplicateLeads: c.duplicates,
		Message:        importMessage(c.imported, c.errors, c.duplicates),
	}
}

func importMessage(imported, errors, duplicates int) string {
	msg := fmt.Sprintf("Import complete: %d leads added, %d errors", imported, errors)
	if duplicates > 0 {
		msg += fmt.Sprintf(", %d duplicates skipped", duplicates)
	}
	return msg
}

// process walks every data row. Per-row failures are counted and logged;
// they never stop the walk. Only context cancellation does.
func (p *rowProcessor) process(ctx context.Context, rows [][]string) (rowCounts, error) {
	var counts rowCounts
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		// Row numbers in logs are 1-based and count the header.
		counts.add(p.processRow(ctx, i+2, row))
	}
	return counts, nil
}

func (p *rowProcessor) processRow(ctx context.Context, rowNum int, row []string) RowDisposition {
	lead, ok := p.buildLead(rowNum, row)
	if !ok {
		return RowSkipped
	}
	if !lead.Identifiable() {
		p.logger.Debug("row rejected: no name, email or phone", "row", rowNum)
		return RowError
	}

	if p.dedupe && lead.Phone != "" {
		existing, err := p.store.GetLeadBySearchAndPhone(ctx, p.searchID, lead.Phone)
		if err != nil {
			p.logger.Warn("duplicate probe failed", "row", rowNum, "error", err)
			return RowError
		}
		if existing != nil {
			p.logger.Debug("row skipped: duplicate phone", "row", rowNum, "phone", lead.Phone)
			return RowDuplicate
		}
	}

	if _, err := p.store.CreateProspectingResult(ctx, lead); err != nil {
		p.logger.Warn("failed to store lead", "row", rowNum, "error", err)
		return RowError
	}
	return RowImported
}

// buildLead extracts and normalizes the mapped cells of a row. It reports
// false for blank rows, which are skipped without being counted.
func (p *rowProcessor) buildLead(rowNum int, row []string) (LeadRecord, bool) {
	if len(row) == 0 || isEmptyRow(row) {
		return LeadRecord{}, false
	}

	lead := LeadRecord{
		SearchID: p.searchID,
		Name:     p.text(row, FieldName),
		Email:    p.text(row, FieldEmail),
		Address:  p.text(row, FieldAddress),
		Site:     p.text(row, FieldWebsite),
		Type:     p.text(row, FieldType),
	}

	if rawPhone := cell(row, p.mapping[FieldPhone]); rawPhone != "" {
		lead.Phone = FormatPhone(rawPhone, p.countryCode)
		if PhoneSuspect(lead.Phone) {
			p.logger.Warn("phone looks invalid", "row", rowNum, "raw", rawPhone, "formatted", lead.Phone)
		}
	}

	if p.mapping.Has(FieldCity) && p.mapping[FieldCity] == p.mapping[FieldState] {
		lead.Cidade, lead.Estado = splitCityState(p.text(row, FieldCity))
	} else {
		lead.Cidade = p.text(row, FieldCity)
		lead.Estado = p.text(row, FieldState)
	}

	return lead, true
}

func (p *rowProcessor) text(row []string, kind FieldKind) string {
	return RepairText(cell(row, p.mapping[kind]), p.repair)
}

// cell returns the cleaned value at idx, or "" when unmapped or out of range.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return CleanCell(row[idx])
}

// splitCityState splits "Londrina - PR" into ("Londrina", "PR"). Without a
// separator the whole value is the city.
func splitCityState(v string) (city, state string) {
	for _, sep := range cityStateSeparators {
		if before, after, found := strings.Cut(v, sep); found {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return v, ""
}
