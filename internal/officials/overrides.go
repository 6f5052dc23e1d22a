package officials

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"

	"citizenhub/pkg/models"
)

// Override patches a single upstream record that is known to be wrong.
// Zero fields leave the mapped value alone.
type Override struct {
	Party    models.Party `json:"party,omitempty"`
	ImageURL string       `json:"image_url,omitempty"`
}

// Overrides is keyed by upstream official id.
type Overrides map[int64]Override

// DefaultOverrides returns the curated patches shipped with the app.
func DefaultOverrides() Overrides {
	return Overrides{
		// London Breed: upstream lists no party and a broken photo.
		54690: {
			Party:    models.PartyDemocrat,
			ImageURL: "http://sfcommunityalliance.org/wp-content/uploads/2018/04/oBMVsSAH_400x400.jpg",
		},
	}
}

// LoadOverrides reads a JSON object of id -> override and merges it over the
// defaults. Entries in r win.
//
//	{"54690": {"party": "Democrat", "image_url": "https://..."}}
func LoadOverrides(r io.Reader) (Overrides, error) {
	var extra map[int64]Override
	if err := json.NewDecoder(r).Decode(&extra); err != nil {
		return nil, fmt.Errorf("overrides: decode: %w", err)
	}
	for id, o := range extra {
		if o.ImageURL != "" {
			if _, ok := parseURL(o.ImageURL); !ok {
				return nil, fmt.Errorf("overrides: id %d: invalid image_url %q", id, o.ImageURL)
			}
		}
	}
	out := DefaultOverrides()
	maps.Copy(out, extra)
	return out, nil
}

// LoadOverridesFile is LoadOverrides for a path. An empty path yields the
// defaults.
func LoadOverridesFile(path string) (Overrides, error) {
	if path == "" {
		return DefaultOverrides(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("overrides: %w", err)
	}
	defer f.Close()
	return LoadOverrides(f)
}

func (o Override) apply(l *models.Legislator) {
	if o.Party != "" {
		l.Party = o.Party
	}
	if o.ImageURL != "" {
		if u, ok := parseURL(o.ImageURL); ok {
			l.ImageURL = u
		}
	}
}

func (ov Overrides) apply(l *models.Legislator) {
	if o, ok := ov[l.ID]; ok {
		o.apply(l)
	}
}
