package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// ProspectingResult is a row of prospecting_results.
type ProspectingResult struct {
	ID        int64
	SearchID  int64
	Name      pgtype.Text
	Email     pgtype.Text
	Phone     pgtype.Text
	Address   pgtype.Text
	Cidade    pgtype.Text
	Estado    pgtype.Text
	Site      pgtype.Text
	Type      pgtype.Text
	CreatedAt pgtype.Timestamptz
}

const insertProspectingResult = `
INSERT INTO prospecting_results (search_id, name, email, phone, address, cidade, estado, site, type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, search_id, name, email, phone, address, cidade, estado, site, type, created_at
`

type InsertProspectingResultParams struct {
	SearchID int64
	Name     pgtype.Text
	Email    pgtype.Text
	Phone    pgtype.Text
	Address  pgtype.Text
	Cidade   pgtype.Text
	Estado   pgtype.Text
	Site     pgtype.Text
	Type     pgtype.Text
}

func (q *Queries) InsertProspectingResult(ctx context.Context, arg InsertProspectingResultParams) (ProspectingResult, error) {
	row := q.db.QueryRow(ctx, insertProspectingResult,
		arg.SearchID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Address,
		arg.Cidade,
		arg.Estado,
		arg.Site,
		arg.Type,
	)
	var i ProspectingResult
	err := row.Scan(
		&i.ID,
		&i.SearchID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Address,
		&i.Cidade,
		&i.Estado,
		&i.Site,
		&i.Type,
		&i.CreatedAt,
	)
	return i, err
}

const getProspectingResultBySearchAndPhone = `
SELECT id, search_id, name, email, phone, address, cidade, estado, site, type, created_at
FROM prospecting_results
WHERE search_id = $1 AND phone = $2
ORDER BY id
LIMIT 1
`

func (q *Queries) GetProspectingResultBySearchAndPhone(ctx context.Context, searchID int64, phone string) (ProspectingResult, error) {
	row := q.db.QueryRow(ctx, getProspectingResultBySearchAndPhone, searchID, phone)
	var i ProspectingResult
	err := row.Scan(
		&i.ID,
		&i.SearchID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Address,
		&i.Cidade,
		&i.Estado,
		&i.Site,
		&i.Type,
		&i.CreatedAt,
	)
	return i, err
}

const searchExists = `SELECT EXISTS (SELECT 1 FROM searches WHERE id = $1)`

func (q *Queries) SearchExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, searchExists, id).Scan(&exists)
	return exists, err
}

const createSearch = `INSERT INTO searches (name) VALUES ($1) RETURNING id`

func (q *Queries) CreateSearch(ctx context.Context, name string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createSearch, name).Scan(&id)
	return id, err
}
