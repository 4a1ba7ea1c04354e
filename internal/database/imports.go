package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// LeadImport is a row of lead_imports.
type LeadImport struct {
	ID             pgtype.UUID
	SearchID       int64
	FileName       string
	Format         string
	ImportedLeads  int32
	ErrorLeads     int32
	DuplicateLeads int32
	ForcedMapping  bool
	DurationMs     int64
	ClientIp       pgtype.Text
	UserAgent      pgtype.Text
	CreatedAt      pgtype.Timestamptz
}

const insertLeadImport = `
INSERT INTO lead_imports (
	id, search_id, file_name, format, imported_leads, error_leads,
	duplicate_leads, forced_mapping, duration_ms, client_ip, user_agent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type InsertLeadImportParams struct {
	ID             pgtype.UUID
	SearchID       int64
	FileName       string
	Format         string
	ImportedLeads  int32
	ErrorLeads     int32
	DuplicateLeads int32
	ForcedMapping  bool
	DurationMs     int64
	ClientIp       pgtype.Text
	UserAgent      pgtype.Text
	CreatedAt      pgtype.Timestamptz
}

func (q *Queries) InsertLeadImport(ctx context.Context, arg InsertLeadImportParams) error {
	_, err := q.db.Exec(ctx, insertLeadImport,
		arg.ID,
		arg.SearchID,
		arg.FileName,
		arg.Format,
		arg.ImportedLeads,
		arg.ErrorLeads,
		arg.DuplicateLeads,
		arg.ForcedMapping,
		arg.DurationMs,
		arg.ClientIp,
		arg.UserAgent,
		arg.CreatedAt,
	)
	return err
}

const listLeadImportsBySearch = `
SELECT id, search_id, file_name, format, imported_leads, error_leads,
	duplicate_leads, forced_mapping, duration_ms, client_ip, user_agent, created_at
FROM lead_imports
WHERE search_id = $1
ORDER BY created_at DESC
LIMIT $2
`

func (q *Queries) ListLeadImportsBySearch(ctx context.Context, searchID int64, limit int32) ([]LeadImport, error) {
	rows, err := q.db.Query(ctx, listLeadImportsBySearch, searchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LeadImport
	for rows.Next() {
		var i LeadImport
		if err := rows.Scan(
			&i.ID,
			&i.SearchID,
			&i.FileName,
			&i.Format,
			&i.ImportedLeads,
			&i.ErrorLeads,
			&i.DuplicateLeads,
			&i.ForcedMapping,
			&i.DurationMs,
			&i.ClientIp,
			&i.UserAgent,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
