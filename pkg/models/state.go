package models

import "strings"

// USState is a closed enumeration of US states plus the District of Columbia.
// StateUnknown is used whenever a record carries no recognizable state.
type USState int

const (
	StateUnknown USState = iota
	Alabama
	Alaska
	Arizona
	Arkansas
	California
	Colorado
	Connecticut
	Delaware
	DistrictOfColumbia
	Florida
	Georgia
	Hawaii
	Idaho
	Illinois
	Indiana
	Iowa
	Kansas
	Kentucky
	Louisiana
	Maine
	Maryland
	Massachusetts
	Michigan
	Minnesota
	Mississippi
	Missouri
	Montana
	Nebraska
	Nevada
	NewHampshire
	NewJersey
	NewMexico
	NewYork
	NorthCarolina
	NorthDakota
	Ohio
	Oklahoma
	Oregon
	Pennsylvania
	RhodeIsland
	SouthCarolina
	SouthDakota
	Tennessee
	Texas
	Utah
	Vermont
	Virginia
	Washington
	WestVirginia
	Wisconsin
	Wyoming
)

type stateInfo struct {
	name string
	abbr string
}

var stateTable = [...]stateInfo{
	StateUnknown:       {"Unknown", ""},
	Alabama:            {"Alabama", "AL"},
	Alaska:             {"Alaska", "AK"},
	Arizona:            {"Arizona", "AZ"},
	Arkansas:           {"Arkansas", "AR"},
	California:         {"California", "CA"},
	Colorado:           {"Colorado", "CO"},
	Connecticut:        {"Connecticut", "CT"},
	Delaware:           {"Delaware", "DE"},
	DistrictOfColumbia: {"District of Columbia", "DC"},
	Florida:            {"Florida", "FL"},
	Georgia:            {"Georgia", "GA"},
	Hawaii:             {"Hawaii", "HI"},
	Idaho:              {"Idaho", "ID"},
	Illinois:           {"Illinois", "IL"},
	Indiana:            {"Indiana", "IN"},
	Iowa:               {"Iowa", "IA"},
	Kansas:             {"Kansas", "KS"},
	Kentucky:           {"Kentucky", "KY"},
	Louisiana:          {"Louisiana", "LA"},
	Maine:              {"Maine", "ME"},
	Maryland:           {"Maryland", "MD"},
	Massachusetts:      {"Massachusetts", "MA"},
	Michigan:           {"Michigan", "MI"},
	Minnesota:          {"Minnesota", "MN"},
	Mississippi:        {"Mississippi", "MS"},
	Missouri:           {"Missouri", "MO"},
	Montana:            {"Montana", "MT"},
	Nebraska:           {"Nebraska", "NE"},
	Nevada:             {"Nevada", "NV"},
	NewHampshire:       {"New Hampshire", "NH"},
	NewJersey:          {"New Jersey", "NJ"},
	NewMexico:          {"New Mexico", "NM"},
	NewYork:            {"New York", "NY"},
	NorthCarolina:      {"North Carolina", "NC"},
	NorthDakota:        {"North Dakota", "ND"},
	Ohio:               {"Ohio", "OH"},
	Oklahoma:           {"Oklahoma", "OK"},
	Oregon:             {"Oregon", "OR"},
	Pennsylvania:       {"Pennsylvania", "PA"},
	RhodeIsland:        {"Rhode Island", "RI"},
	SouthCarolina:      {"South Carolina", "SC"},
	SouthDakota:        {"South Dakota", "SD"},
	Tennessee:          {"Tennessee", "TN"},
	Texas:              {"Texas", "TX"},
	Utah:               {"Utah", "UT"},
	Vermont:            {"Vermont", "VT"},
	Virginia:           {"Virginia", "VA"},
	Washington:         {"Washington", "WA"},
	WestVirginia:       {"West Virginia", "WV"},
	Wisconsin:          {"Wisconsin", "WI"},
	Wyoming:            {"Wyoming", "WY"},
}

// stateLookup indexes every state by lowercase name and lowercase abbreviation.
var stateLookup = func() map[string]USState {
	m := make(map[string]USState, 2*len(stateTable))
	for i, info := range stateTable {
		s := USState(i)
		if s == StateUnknown {
			continue
		}
		m[strings.ToLower(info.name)] = s
		m[strings.ToLower(info.abbr)] = s
	}
	return m
}()

// StateFrom resolves a full state name or postal abbreviation, ignoring case
// and surrounding whitespace. Anything else resolves to StateUnknown.
func StateFrom(s string) USState {
	if st, ok := stateLookup[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return StateUnknown
}

func (s USState) valid() bool {
	return s >= 0 && int(s) < len(stateTable)
}

// Name returns the full state name, "Unknown" for StateUnknown.
func (s USState) Name() string {
	if !s.valid() {
		return stateTable[StateUnknown].name
	}
	return stateTable[s].name
}

// Abbreviation returns the two-letter postal code, empty for StateUnknown.
func (s USState) Abbreviation() string {
	if !s.valid() {
		return ""
	}
	return stateTable[s].abbr
}

func (s USState) String() string { return s.Name() }

// MarshalText encodes the postal code, or "Unknown" when there is none.
func (s USState) MarshalText() ([]byte, error) {
	if abbr := s.Abbreviation(); abbr != "" {
		return []byte(abbr), nil
	}
	return []byte(stateTable[StateUnknown].name), nil
}

func (s *USState) UnmarshalText(b []byte) error {
	*s = StateFrom(string(b))
	return nil
}
