package models

import "fmt"

// OfficeKind names the variant of an Office.
type OfficeKind string

const (
	KindExecutive           OfficeKind = "executive"
	KindSenator             OfficeKind = "senator"
	KindHouseRepresentative OfficeKind = "house_representative"
	KindStateExecutive      OfficeKind = "state_executive"
	KindStateSenator        OfficeKind = "state_senator"
	KindStateRepresentative OfficeKind = "state_representative"
	KindLocalExecutive      OfficeKind = "local_executive"
)

// Office is the seat a legislator holds. The set of implementations is closed:
// only the types in this file satisfy it.
type Office interface {
	Kind() OfficeKind
	// Description is a human readable label for the seat.
	Description() string
	// Fields flattens the variant for storage and transport.
	Fields() OfficeFields
	isOffice()
}

// OfficeFields is the flat form of an Office. Unused fields stay zero.
type OfficeFields struct {
	Kind     OfficeKind `json:"kind"`
	Title    string     `json:"title,omitempty"`
	State    USState    `json:"state"`
	District int        `json:"district,omitempty"`
	City     string     `json:"city,omitempty"`
}

// Executive is a national executive office such as President.
type Executive struct {
	Title string
}

// Senator is a US Senate seat.
type Senator struct {
	State USState
}

// HouseRepresentative is a US House seat.
type HouseRepresentative struct {
	State    USState
	District int
}

// StateExecutive is a statewide executive office such as Governor.
type StateExecutive struct {
	Title string
	State USState
}

type StateSenator struct {
	State    USState
	District int
}

type StateRepresentative struct {
	State    USState
	District int
}

// LocalExecutive covers city and county offices.
type LocalExecutive struct {
	Title string
	City  string
	State USState
}

func (Executive) isOffice()           {}
func (Senator) isOffice()             {}
func (HouseRepresentative) isOffice() {}
func (StateExecutive) isOffice()      {}
func (StateSenator) isOffice()        {}
func (StateRepresentative) isOffice() {}
func (LocalExecutive) isOffice()      {}

func (Executive) Kind() OfficeKind           { return KindExecutive }
func (Senator) Kind() OfficeKind             { return KindSenator }
func (HouseRepresentative) Kind() OfficeKind { return KindHouseRepresentative }
func (StateExecutive) Kind() OfficeKind      { return KindStateExecutive }
func (StateSenator) Kind() OfficeKind        { return KindStateSenator }
func (StateRepresentative) Kind() OfficeKind { return KindStateRepresentative }
func (LocalExecutive) Kind() OfficeKind      { return KindLocalExecutive }

func (o Executive) Description() string { return o.Title }

func (o Senator) Description() string {
	return fmt.Sprintf("U.S. Senator for %s", o.State.Name())
}

func (o HouseRepresentative) Description() string {
	return fmt.Sprintf("U.S. Representative for %s, District %d", o.State.Name(), o.District)
}

func (o StateExecutive) Description() string {
	return fmt.Sprintf("%s, %s", o.Title, o.State.Name())
}

func (o StateSenator) Description() string {
	return fmt.Sprintf("%s State Senator, District %d", o.State.Name(), o.District)
}

func (o StateRepresentative) Description() string {
	return fmt.Sprintf("%s State Representative, District %d", o.State.Name(), o.District)
}

func (o LocalExecutive) Description() string {
	return fmt.Sprintf("%s, %s, %s", o.Title, o.City, o.State.Name())
}

func (o Executive) Fields() OfficeFields {
	return OfficeFields{Kind: KindExecutive, Title: o.Title}
}

func (o Senator) Fields() OfficeFields {
	return OfficeFields{Kind: KindSenator, State: o.State}
}

func (o HouseRepresentative) Fields() OfficeFields {
	return OfficeFields{Kind: KindHouseRepresentative, State: o.State, District: o.District}
}

func (o StateExecutive) Fields() OfficeFields {
	return OfficeFields{Kind: KindStateExecutive, Title: o.Title, State: o.State}
}

func (o StateSenator) Fields() OfficeFields {
	return OfficeFields{Kind: KindStateSenator, State: o.State, District: o.District}
}

func (o StateRepresentative) Fields() OfficeFields {
	return OfficeFields{Kind: KindStateRepresentative, State: o.State, District: o.District}
}

func (o LocalExecutive) Fields() OfficeFields {
	return OfficeFields{Kind: KindLocalExecutive, Title: o.Title, State: o.State, City: o.City}
}

// Office rebuilds the variant described by f.
func (f OfficeFields) Office() (Office, error) {
	switch f.Kind {
	case KindExecutive:
		return Executive{Title: f.Title}, nil
	case KindSenator:
		return Senator{State: f.State}, nil
	case KindHouseRepresentative:
		return HouseRepresentative{State: f.State, District: f.District}, nil
	case KindStateExecutive:
		return StateExecutive{Title: f.Title, State: f.State}, nil
	case KindStateSenator:
		return StateSenator{State: f.State, District: f.District}, nil
	case KindStateRepresentative:
		return StateRepresentative{State: f.State, District: f.District}, nil
	case KindLocalExecutive:
		return LocalExecutive{Title: f.Title, City: f.City, State: f.State}, nil
	default:
		return nil, fmt.Errorf("unknown office kind %q", f.Kind)
	}
}
