package officials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"citizenhub/pkg/models"
)

// SaveToDatabase upserts legislators into the `legislators` table inside one
// transaction, tagging each row with the source it came from:
//
//	CREATE TABLE legislators (
//	  id INTEGER PRIMARY KEY,       -- upstream official id
//	  office_kind TEXT, state TEXT, district INTEGER, ...
//	  socials TEXT,                 -- JSON array
//	  source TEXT, synced_at TEXT
//	);
//
// Rows for the same official are overwritten by the latest sync.
func SaveToDatabase(ctx context.Context, db *sql.DB, source string, legislators []models.Legislator) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO legislators (
		  id, name, office_kind, office_title, office_position, state, district, city,
		  party, image_url, website, email, office_location, term_start, term_end,
		  socials, source, synced_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  office_kind = excluded.office_kind,
		  office_title = excluded.office_title,
		  office_position = excluded.office_position,
		  state = excluded.state,
		  district = excluded.district,
		  city = excluded.city,
		  party = excluded.party,
		  image_url = excluded.image_url,
		  website = excluded.website,
		  email = excluded.email,
		  office_location = excluded.office_location,
		  term_start = excluded.term_start,
		  term_end = excluded.term_end,
		  socials = excluded.socials,
		  source = excluded.source,
		  synced_at = excluded.synced_at
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, l := range legislators {
		row := l.Flatten()

		socialsJSON, err := json.Marshal(row.SocialServices)
		if err != nil {
			return fmt.Errorf("marshal socials for %d: %w", row.ID, err)
		}
		state, _ := row.Office.State.MarshalText()

		var termEnd sql.NullString
		if row.TermEnd != nil {
			termEnd = sql.NullString{String: row.TermEnd.UTC().Format(time.RFC3339), Valid: true}
		}

		if _, err := stmt.ExecContext(
			ctx,
			row.ID,
			row.Name,
			string(row.Office.Kind),
			row.OfficeTitle,
			row.Office.Title,
			string(state),
			row.Office.District,
			row.Office.City,
			string(row.Party),
			row.ImageURL,
			row.Website,
			row.Email,
			row.OfficeLocation,
			row.TermStart.UTC().Format(time.RFC3339),
			termEnd,
			string(socialsJSON),
			source,
			now,
		); err != nil {
			return fmt.Errorf("exec upsert for %d: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
