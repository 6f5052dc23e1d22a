package models

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFrom(t *testing.T) {
	tests := map[string]USState{
		"CA":                   California,
		"ca":                   California,
		"California":           California,
		" new hampshire ":      NewHampshire,
		"DC":                   DistrictOfColumbia,
		"District of Columbia": DistrictOfColumbia,
		"WY":                   Wyoming,
		"Unknown":              StateUnknown,
		"":                     StateUnknown,
		"Puerto Rico":          StateUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, StateFrom(in), "input %q", in)
	}
}

func TestUSState_Names(t *testing.T) {
	assert.Equal(t, "California", California.Name())
	assert.Equal(t, "CA", California.Abbreviation())
	assert.Equal(t, "Unknown", StateUnknown.Name())
	assert.Equal(t, "", StateUnknown.Abbreviation())
	assert.Equal(t, "Unknown", USState(999).Name())

	b, err := StateUnknown.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Unknown", string(b))

	var s USState
	require.NoError(t, s.UnmarshalText([]byte("TX")))
	assert.Equal(t, Texas, s)
}

func TestParseParty(t *testing.T) {
	assert.Equal(t, PartyDemocrat, ParseParty("D"))
	assert.Equal(t, PartyDemocrat, ParseParty("democratic"))
	assert.Equal(t, PartyRepublican, ParseParty(" Republican "))
	assert.Equal(t, PartyIndependent, ParseParty("I"))
	assert.Equal(t, PartyLibertarian, ParseParty("L"))
	assert.Equal(t, PartyGreen, ParseParty("green"))
	assert.Equal(t, PartyUnknown, ParseParty(""))
	assert.Equal(t, PartyUnknown, ParseParty("Whig"))
}

func TestProviderFrom(t *testing.T) {
	p, ok := ProviderFrom("youtube")
	assert.True(t, ok)
	assert.Equal(t, ProviderYouTube, p)

	_, ok = ProviderFrom("YouTube")
	assert.False(t, ok)
	_, ok = ProviderFrom("flickr")
	assert.False(t, ok)
}

func TestOffice_Descriptions(t *testing.T) {
	assert.Equal(t, "President", Executive{Title: "President"}.Description())
	assert.Equal(t, "U.S. Senator for California", Senator{State: California}.Description())
	assert.Equal(t, "U.S. Representative for California, District 12", HouseRepresentative{State: California, District: 12}.Description())
	assert.Equal(t, "Governor, California", StateExecutive{Title: "Governor", State: California}.Description())
	assert.Equal(t, "Oregon State Senator, District 7", StateSenator{State: Oregon, District: 7}.Description())
	assert.Equal(t, "California State Representative, District 17", StateRepresentative{State: California, District: 17}.Description())
	assert.Equal(t, "Mayor, Oakland, California", LocalExecutive{Title: "Mayor", City: "Oakland", State: California}.Description())
}

func TestOfficeFields_RebuildsEveryVariant(t *testing.T) {
	offices := []Office{
		Executive{Title: "President"},
		Senator{State: Texas},
		HouseRepresentative{State: California, District: 12},
		StateExecutive{Title: "Governor", State: NewYork},
		StateSenator{State: Oregon, District: 7},
		StateRepresentative{State: California, District: 17},
		LocalExecutive{Title: "Mayor", City: "Boise", State: Idaho},
	}
	for _, o := range offices {
		f := o.Fields()
		assert.Equal(t, o.Kind(), f.Kind)

		b, err := json.Marshal(f)
		require.NoError(t, err)
		var decoded OfficeFields
		require.NoError(t, json.Unmarshal(b, &decoded))

		rebuilt, err := decoded.Office()
		require.NoError(t, err)
		assert.Equal(t, o, rebuilt)
	}

	_, err := OfficeFields{Kind: "emperor"}.Office()
	assert.Error(t, err)
}

func TestLegislator_FlattenAndBack(t *testing.T) {
	img, _ := url.Parse("https://example.org/a.jpg")
	site, _ := url.Parse("https://example.org")
	end := time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC)
	l := Legislator{
		ID:             42,
		Name:           "Ada Lovelace",
		Office:         HouseRepresentative{State: California, District: 12},
		Party:          PartyDemocrat,
		ImageURL:       img,
		Website:        site,
		Email:          "ada@example.org",
		OfficeLocation: "San Francisco, CA",
		TermStart:      time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC),
		TermEnd:        &end,
		SocialServices: []SocialService{{Provider: ProviderTwitter, Value: "ada"}},
	}

	flat := l.Flatten()
	assert.Equal(t, "U.S. Representative for California, District 12", flat.OfficeTitle)
	assert.Equal(t, "https://example.org/a.jpg", flat.ImageURL)

	b, err := json.Marshal(flat)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"state":"CA"`)

	back, err := flat.Legislator()
	require.NoError(t, err)
	assert.Equal(t, l, back)
}

func TestFlatten_NoSocials(t *testing.T) {
	flat := Legislator{ID: 1, Office: Executive{Title: "President"}}.Flatten()
	assert.NotNil(t, flat.SocialServices)
	assert.Empty(t, flat.ImageURL)
	assert.Empty(t, FlattenAll(nil))
}
