package models

import "strings"

// Party is the closed set of party affiliations the app knows how to display.
type Party string

const (
	PartyDemocrat    Party = "Democrat"
	PartyRepublican  Party = "Republican"
	PartyIndependent Party = "Independent"
	PartyLibertarian Party = "Libertarian"
	PartyGreen       Party = "Green"
	PartyUnknown     Party = "Unknown"
)

// partyCodes maps upstream party codes (upper-cased) onto Party values.
var partyCodes = map[string]Party{
	"DEMOCRAT":    PartyDemocrat,
	"DEMOCRATIC":  PartyDemocrat,
	"D":           PartyDemocrat,
	"REPUBLICAN":  PartyRepublican,
	"R":           PartyRepublican,
	"INDEPENDENT": PartyIndependent,
	"I":           PartyIndependent,
	"LIBERTARIAN": PartyLibertarian,
	"L":           PartyLibertarian,
	"GREEN":       PartyGreen,
	"G":           PartyGreen,
}

// ParseParty maps an upstream party code onto Party. Unrecognized codes are
// not an error; they resolve to PartyUnknown.
func ParseParty(code string) Party {
	if p, ok := partyCodes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return p
	}
	return PartyUnknown
}
