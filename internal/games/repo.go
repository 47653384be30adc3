package games

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"gamewatch/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type ListQuery struct {
	Q      string // keyword search in the title
	OnSale *bool
	Limit  int
	Offset int
}

// Game is a stored record together with its slug, as served by the API.
type Game struct {
	ID string `json:"id"`
	models.GameRecord
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Game, error) {
	var doc string
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM games WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan getByID: %w", err)
	}

	g := Game{ID: id}
	if err := json.Unmarshal([]byte(doc), &g.GameRecord); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return &g, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	var total int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]Game, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]Game, 0, q.Limit)
	for rows.Next() {
		var (
			id  string
			doc string
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		g := Game{ID: id}
		if err := json.Unmarshal([]byte(doc), &g.GameRecord); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildListSQL builds either COUNT(*) or the SELECT list. Records are JSON
// docs, so filters are LIKE searches inside the stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT id, doc FROM games`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM games`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(id) LIKE ? OR LOWER(doc) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if q.OnSale != nil {
		if *q.OnSale {
			where = append(where, `doc LIKE '%"en_oferta":true%'`)
		} else {
			where = append(where, `doc LIKE '%"en_oferta":false%'`)
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY id ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
