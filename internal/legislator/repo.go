package legislator

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"citizenhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q          string // keyword search in name/office title
	State      string // name or postal code
	Party      string
	OfficeKind string
	Limit      int
	Offset     int
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Normalized returns q with paging clamped: a limit outside 1..100 becomes
// 20 and a negative offset becomes 0.
func (q ListQuery) Normalized() ListQuery {
	if q.Limit <= 0 || q.Limit > maxLimit {
		q.Limit = defaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const selectColumns = `
	SELECT id, name, office_kind, office_title, office_position, state, district, city,
	       party, image_url, website, email, office_location, term_start, term_end,
	       socials, source, synced_at
	FROM legislators
`

// GetByID returns nil, nil when the legislator is not stored.
func (r *Repo) GetByID(ctx context.Context, id int64) (*models.LegislatorDB, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	l, err := scanLegislator(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return &l, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.LegislatorDB, error) {
	q = q.Normalized()
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.LegislatorDB, 0, q.Limit)
	for rows.Next() {
		l, err := scanLegislator(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLegislator(s scanner) (models.LegislatorDB, error) {
	var (
		l           models.LegislatorDB
		kind        string
		position    sql.NullString
		state       string
		city        sql.NullString
		party       string
		website     sql.NullString
		email       sql.NullString
		termStart   string
		termEnd     sql.NullString
		socialsJSON string
		syncedAt    string
	)
	if err := s.Scan(
		&l.ID, &l.Name, &kind, &l.OfficeTitle, &position, &state, &l.Office.District, &city,
		&party, &l.ImageURL, &website, &email, &l.OfficeLocation, &termStart, &termEnd,
		&socialsJSON, &l.Source, &syncedAt,
	); err != nil {
		return l, err
	}

	l.Office.Kind = models.OfficeKind(kind)
	l.Office.Title = position.String
	l.Office.State = models.StateFrom(state)
	l.Office.City = city.String
	l.Party = models.Party(party)
	l.Website = website.String
	l.Email = email.String

	var err error
	if l.TermStart, err = time.Parse(time.RFC3339, termStart); err != nil {
		return l, fmt.Errorf("term_start: %w", err)
	}
	if termEnd.Valid {
		t, err := time.Parse(time.RFC3339, termEnd.String)
		if err != nil {
			return l, fmt.Errorf("term_end: %w", err)
		}
		l.TermEnd = &t
	}
	if t, err := time.Parse(time.RFC3339, syncedAt); err == nil {
		l.SyncedAt = &t
	}

	l.SocialServices = []models.SocialService{}
	_ = json.Unmarshal([]byte(socialsJSON), &l.SocialServices)
	return l, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := selectColumns
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM legislators`
	}

	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(office_title) LIKE ?)")
		like := "%" + strings.ToLower(kw) + "%"
		args = append(args, like, like)
	}

	if s := strings.TrimSpace(q.State); s != "" {
		code, _ := models.StateFrom(s).MarshalText()
		where = append(where, "state = ?")
		args = append(args, string(code))
	}

	if p := strings.TrimSpace(q.Party); p != "" {
		where = append(where, "party = ?")
		args = append(args, string(models.ParseParty(p)))
	}

	if k := strings.TrimSpace(q.OfficeKind); k != "" {
		where = append(where, "office_kind = ?")
		args = append(args, strings.ToLower(k))
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		q = q.Normalized()
		sqlStr += " ORDER BY name ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	return sqlStr, args
}
