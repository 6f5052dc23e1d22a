package officials

import (
	"net/url"
	"strings"
	"unicode"

	"citizenhub/pkg/models"
)

const (
	// PlaceholderImageURL is used when an official has no usable photo.
	PlaceholderImageURL = "https://t4.ftcdn.net/jpg/02/15/84/43/240_F_215844325_ttX9YiIIyeaR7Ne6EaLLjMAmy4GvPC69.jpg"

	UnknownCity        = "Unknown"
	UnknownOfficeCity  = "Unknown City"
	unknownStateMarker = "Unknown"
)

var placeholderImage = mustParseURL(PlaceholderImageURL)

// ToLegislators maps every official in payload order.
func ToLegislators(resp LegislatorsResponse, overrides Overrides) []models.Legislator {
	out := make([]models.Legislator, 0, len(resp.Officials))
	for _, rec := range resp.Officials {
		out = append(out, ToLegislator(rec, overrides))
	}
	return out
}

// ToLegislator maps one decoded official into the domain model. It never
// fails: missing or unusable fields fall back to fixed defaults, and any
// override registered for the official's id is applied last.
func ToLegislator(rec OfficialResponse, overrides Overrides) models.Legislator {
	l := models.Legislator{
		ID:             deref(rec.ID),
		Name:           deref(rec.FirstName) + " " + deref(rec.LastName),
		Office:         classifyOffice(rec.OfficeDetails),
		Party:          models.ParseParty(deref(rec.Party)),
		ImageURL:       resolveImage(rec.Photo),
		Website:        resolveWebsite(rec.Websites),
		Email:          firstOf(rec.Emails),
		OfficeLocation: resolveOfficeLocation(rec.OfficeLocation, rec.OfficeDetails),
		SocialServices: mergeSocials(rec.Socials),
	}
	if rec.TermStart != nil {
		l.TermStart = rec.TermStart.Time
	}
	if rec.TermEnd != nil {
		end := rec.TermEnd.Time
		l.TermEnd = &end
	}
	overrides.apply(&l)
	return l
}

func classifyOffice(details *OfficeDetailResponse) models.Office {
	if details == nil {
		details = &OfficeDetailResponse{}
	}
	title := deref(details.Position)
	stateName := unknownStateMarker
	if details.State != nil {
		stateName = *details.State
	}
	state := models.StateFrom(stateName)
	district, _ := details.District.Number()

	switch details.District.Type {
	case DistrictNationalExec:
		return models.Executive{Title: title}
	case DistrictNationalUpper:
		return models.Senator{State: state}
	case DistrictNationalLower:
		return models.HouseRepresentative{State: state, District: district}
	case DistrictStateExec:
		return models.StateExecutive{Title: title, State: state}
	case DistrictStateUpper:
		return models.StateSenator{State: state, District: district}
	case DistrictStateLower:
		return models.StateRepresentative{State: state, District: district}
	case DistrictLocalExec, DistrictLocal:
		city := UnknownCity
		if details.District.City != nil {
			city = *details.District.City
		}
		return models.LocalExecutive{Title: title, City: city, State: state}
	default:
		// Decode rejects unknown codes; only hand-built records reach here.
		return models.Executive{Title: title}
	}
}

// resolveWebsite only ever looks at the first entry.
func resolveWebsite(websites []string) *url.URL {
	if len(websites) == 0 {
		return nil
	}
	u, ok := parseURL(websites[0])
	if !ok {
		return nil
	}
	return u
}

func resolveImage(photo *string) *url.URL {
	if photo != nil {
		if u, ok := parseURL(*photo); ok {
			return u
		}
	}
	u := *placeholderImage
	return &u
}

func resolveOfficeLocation(loc *OfficeLocationResponse, details *OfficeDetailResponse) string {
	if s, ok := loc.String(); ok {
		return s
	}
	if s, ok := details.LocationString(); ok {
		return s
	}
	return UnknownOfficeCity
}

// mergeSocials keeps the first handle per recognized provider, in input order.
func mergeSocials(socials []SocialResponse) []models.SocialService {
	out := make([]models.SocialService, 0, len(socials))
	seen := make(map[models.SocialProvider]struct{}, len(socials))
	for _, s := range socials {
		provider, ok := models.ProviderFrom(deref(s.IdentifierType))
		if !ok {
			continue
		}
		if _, dup := seen[provider]; dup {
			continue
		}
		seen[provider] = struct{}{}
		out = append(out, models.SocialService{Provider: provider, Value: deref(s.IdentifierValue)})
	}
	return out
}

// parseURL accepts what a strict URL initializer would: non-empty, no
// whitespace or control characters, and parseable.
func parseURL(s string) (*url.URL, bool) {
	if s == "" || strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}
	return u, true
}

func mustParseURL(s string) *url.URL {
	u, ok := parseURL(s)
	if !ok {
		panic("officials: bad url constant " + s)
	}
	return u
}

func firstOf(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
