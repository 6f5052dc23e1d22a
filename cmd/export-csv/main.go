package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"citizenhub/internal/legislator"
	"citizenhub/pkg/database"
	"citizenhub/pkg/models"
	"citizenhub/pkg/utils"
)

const pageSize = 100

func main() {
	var (
		outPath = flag.String("out", "data/legislators.csv", "output CSV path")
		state   = flag.String("state", "", "only export this state")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := utils.MustLoad()
	db := database.MustOpen(database.Config{Path: cfg.Database.Path})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := export(ctx, legislator.NewRepo(db), *state, *outPath)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	log.Printf("exported %d legislators to %s", n, *outPath)
}

func export(ctx context.Context, repo *legislator.Repo, state, outPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "name", "party", "office_kind", "office_title", "state", "district", "city",
		"email", "website", "office_location", "term_start", "term_end", "twitter", "facebook",
	}); err != nil {
		return 0, err
	}

	total := 0
	for offset := 0; ; offset += pageSize {
		page, err := repo.List(ctx, legislator.ListQuery{State: state, Limit: pageSize, Offset: offset})
		if err != nil {
			return total, err
		}
		for _, l := range page {
			if err := w.Write(record(l)); err != nil {
				return total, err
			}
		}
		total += len(page)
		if len(page) < pageSize {
			break
		}
	}

	w.Flush()
	return total, w.Error()
}

func record(l models.LegislatorDB) []string {
	district := ""
	if l.Office.District > 0 {
		district = strconv.Itoa(l.Office.District)
	}
	termEnd := ""
	if l.TermEnd != nil {
		termEnd = l.TermEnd.Format(time.DateOnly)
	}
	state, _ := l.Office.State.MarshalText()
	if l.Office.State == models.StateUnknown {
		state = nil
	}

	social := map[models.SocialProvider]string{}
	for _, s := range l.SocialServices {
		social[s.Provider] = s.Value
	}

	return []string{
		strconv.FormatInt(l.ID, 10),
		l.Name,
		string(l.Party),
		string(l.Office.Kind),
		l.OfficeTitle,
		string(state),
		district,
		l.Office.City,
		l.Email,
		l.Website,
		l.OfficeLocation,
		l.TermStart.Format(time.DateOnly),
		termEnd,
		social[models.ProviderTwitter],
		social[models.ProviderFacebook],
	}
}
