package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

// LeadRepository stores imported leads. It implements core.LeadStore and
// core.SearchRegistry.
type LeadRepository struct {
	q *Queries
}

func NewLeadRepository(db DBTX) *LeadRepository {
	return &LeadRepository{q: New(db)}
}

func (r *LeadRepository) CreateProspectingResult(ctx context.Context, lead core.LeadRecord) (core.LeadRecord, error) {
	row, err := r.q.InsertProspectingResult(ctx, InsertProspectingResultParams{
		SearchID: lead.SearchID,
		Name:     ToPgText(lead.Name),
		Email:    ToPgText(lead.Email),
		Phone:    ToPgText(lead.Phone),
		Address:  ToPgText(lead.Address),
		Cidade:   ToPgText(lead.Cidade),
		Estado:   ToPgText(lead.Estado),
		Site:     ToPgText(lead.Site),
		Type:     ToPgText(lead.Type),
	})
	if err != nil {
		return core.LeadRecord{}, fmt.Errorf("insert lead: %w", err)
	}
	return leadFromRow(row), nil
}

func (r *LeadRepository) GetLeadBySearchAndPhone(ctx context.Context, searchID int64, phone string) (*core.LeadRecord, error) {
	row, err := r.q.GetProspectingResultBySearchAndPhone(ctx, searchID, phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find lead by phone: %w", err)
	}
	lead := leadFromRow(row)
	return &lead, nil
}

func (r *LeadRepository) SearchExists(ctx context.Context, searchID int64) (bool, error) {
	return r.q.SearchExists(ctx, searchID)
}

// CreateSearch registers a new search that imports can target.
func (r *LeadRepository) CreateSearch(ctx context.Context, name string) (int64, error) {
	id, err := r.q.CreateSearch(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create search %q: %w", name, err)
	}
	return id, nil
}

func leadFromRow(row ProspectingResult) core.LeadRecord {
	return core.LeadRecord{
		ID:       row.ID,
		SearchID: row.SearchID,
		Name:     FromPgText(row.Name),
		Email:    FromPgText(row.Email),
		Phone:    FromPgText(row.Phone),
		Address:  FromPgText(row.Address),
		Cidade:   FromPgText(row.Cidade),
		Estado:   FromPgText(row.Estado),
		Site:     FromPgText(row.Site),
		Type:     FromPgText(row.Type),
	}
}

// ImportHistoryRepository implements core.HistoryStore on lead_imports.
type ImportHistoryRepository struct {
	q *Queries
}

func NewImportHistoryRepository(db DBTX) *ImportHistoryRepository {
	return &ImportHistoryRepository{q: New(db)}
}

func (r *ImportHistoryRepository) RecordImport(ctx context.Context, e core.ImportHistoryEntry) error {
	id := ToPgUUID(e.ID)
	if !id.Valid {
		return fmt.Errorf("record import: invalid id %q", e.ID)
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := r.q.InsertLeadImport(ctx, InsertLeadImportParams{
		ID:             id,
		SearchID:       e.SearchID,
		FileName:       e.FileName,
		Format:         string(e.Format),
		ImportedLeads:  int32(e.ImportedLeads),
		ErrorLeads:     int32(e.ErrorLeads),
		DuplicateLeads: int32(e.DuplicateLeads),
		ForcedMapping:  e.ForcedMapping,
		DurationMs:     e.DurationMs,
		ClientIp:       ToPgText(e.ClientIP),
		UserAgent:      ToPgText(e.UserAgent),
		CreatedAt:      pgtype.Timestamptz{Time: createdAt, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

func (r *ImportHistoryRepository) ListImports(ctx context.Context, searchID int64, limit int) ([]core.ImportHistoryEntry, error) {
	rows, err := r.q.ListLeadImportsBySearch(ctx, searchID, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}

	entries := make([]core.ImportHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, core.ImportHistoryEntry{
			ID:             PgUUIDToString(row.ID),
			SearchID:       row.SearchID,
			FileName:       row.FileName,
			Format:         core.Format(row.Format),
			ImportedLeads:  int(row.ImportedLeads),
			ErrorLeads:     int(row.ErrorLeads),
			DuplicateLeads: int(row.DuplicateLeads),
			ForcedMapping:  row.ForcedMapping,
			DurationMs:     row.DurationMs,
			ClientIP:       FromPgText(row.ClientIp),
			UserAgent:      FromPgText(row.UserAgent),
			CreatedAt:      row.CreatedAt.Time,
		})
	}
	return entries, nil
}
