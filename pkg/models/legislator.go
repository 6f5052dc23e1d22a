package models

import (
	"fmt"
	"net/url"
	"time"
)

// Legislator is the normalized, internal form of an elected official.
//
// Every upstream source is mapped into this structure first; the store, the
// HTTP API and the gRPC API all work from it.
type Legislator struct {
	ID             int64
	Name           string
	Office         Office
	Party          Party
	ImageURL       *url.URL
	Website        *url.URL // nil when the official lists none
	Email          string   // empty when the official lists none
	OfficeLocation string
	TermStart      time.Time
	TermEnd        *time.Time // nil while currently serving
	SocialServices []SocialService
}

// Social returns the handle for provider, if any.
func (l Legislator) Social(provider SocialProvider) (string, bool) {
	for _, s := range l.SocialServices {
		if s.Provider == provider {
			return s.Value, true
		}
	}
	return "", false
}

// LegislatorDB is the flat form of a Legislator used for storage and JSON.
type LegislatorDB struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Office         OfficeFields    `json:"office"`
	OfficeTitle    string          `json:"office_title"`
	Party          Party           `json:"party"`
	ImageURL       string          `json:"image_url"`
	Website        string          `json:"website,omitempty"`
	Email          string          `json:"email,omitempty"`
	OfficeLocation string          `json:"office_location"`
	TermStart      time.Time       `json:"term_start"`
	TermEnd        *time.Time      `json:"term_end,omitempty"`
	SocialServices []SocialService `json:"social_services"`
	Source         string          `json:"source,omitempty"`
	SyncedAt       *time.Time      `json:"synced_at,omitempty"`
}

// Flatten converts l into its storage form.
func (l Legislator) Flatten() LegislatorDB {
	out := LegislatorDB{
		ID:             l.ID,
		Name:           l.Name,
		Party:          l.Party,
		Email:          l.Email,
		OfficeLocation: l.OfficeLocation,
		TermStart:      l.TermStart,
		TermEnd:        l.TermEnd,
		SocialServices: l.SocialServices,
	}
	if out.SocialServices == nil {
		out.SocialServices = []SocialService{}
	}
	if l.Office != nil {
		out.Office = l.Office.Fields()
		out.OfficeTitle = l.Office.Description()
	}
	if l.ImageURL != nil {
		out.ImageURL = l.ImageURL.String()
	}
	if l.Website != nil {
		out.Website = l.Website.String()
	}
	return out
}

// FlattenAll converts a slice, keeping order.
func FlattenAll(ls []Legislator) []LegislatorDB {
	out := make([]LegislatorDB, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Flatten())
	}
	return out
}

// Legislator rebuilds the domain value from its storage form.
func (r LegislatorDB) Legislator() (Legislator, error) {
	office, err := r.Office.Office()
	if err != nil {
		return Legislator{}, fmt.Errorf("legislator %d: %w", r.ID, err)
	}
	l := Legislator{
		ID:             r.ID,
		Name:           r.Name,
		Office:         office,
		Party:          r.Party,
		Email:          r.Email,
		OfficeLocation: r.OfficeLocation,
		TermStart:      r.TermStart,
		TermEnd:        r.TermEnd,
		SocialServices: r.SocialServices,
	}
	if r.ImageURL != "" {
		if l.ImageURL, err = url.Parse(r.ImageURL); err != nil {
			return Legislator{}, fmt.Errorf("legislator %d: image url: %w", r.ID, err)
		}
	}
	if r.Website != "" {
		if l.Website, err = url.Parse(r.Website); err != nil {
			return Legislator{}, fmt.Errorf("legislator %d: website: %w", r.ID, err)
		}
	}
	return l, nil
}
