package officials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedPayload wraps every decode failure: bad JSON, missing required
// fields, malformed dates and unknown district codes.
var ErrMalformedPayload = errors.New("malformed legislators payload")

// TimestampLayout is the upstream date format (calendar year, 24h clock).
const TimestampLayout = "2006-01-02 15:04:05"

var validate = validator.New()

// LegislatorsResponse is the top-level upstream payload.
//
//	{"officials": [ {...}, ... ]}
type LegislatorsResponse struct {
	Officials []OfficialResponse `json:"officials" validate:"required,dive"`
}

// OfficialResponse is one official as sent by the API. Required fields are
// pointers so that absence can be told apart from zero values.
type OfficialResponse struct {
	ID             *int64                  `json:"id" validate:"required"`
	FirstName      *string                 `json:"first_name" validate:"required"`
	LastName       *string                 `json:"last_name" validate:"required"`
	TermStart      *Timestamp              `json:"term_start" validate:"required"`
	TermEnd        *Timestamp              `json:"term_end,omitempty"`
	Party          *string                 `json:"party" validate:"required"`
	Photo          *string                 `json:"photo" validate:"required"`
	Websites       []string                `json:"websites,omitempty"`
	Emails         []string                `json:"emails,omitempty"`
	OfficeDetails  *OfficeDetailResponse   `json:"office_details" validate:"required"`
	OfficeLocation *OfficeLocationResponse `json:"office_location,omitempty"`
	Socials        []SocialResponse        `json:"socials" validate:"required,dive"`
}

type OfficeDetailResponse struct {
	Position *string          `json:"position" validate:"required"`
	State    *string          `json:"state,omitempty"`
	City     *string          `json:"city,omitempty"`
	District DistrictResponse `json:"district"`
}

// LocationString renders "City, ST", "ST", or nothing when state is blank.
func (o *OfficeDetailResponse) LocationString() (string, bool) {
	if o == nil {
		return "", false
	}
	return joinLocation(o.City, o.State)
}

type DistrictResponse struct {
	Type DistrictType `json:"type" validate:"required"`
	ID   *string      `json:"id,omitempty"`
	City *string      `json:"city,omitempty"`
}

// Number parses the district id. Absent or non-numeric ids have no number.
func (d DistrictResponse) Number() (int, bool) {
	if d.ID == nil {
		return 0, false
	}
	n, err := strconv.Atoi(*d.ID)
	if err != nil {
		return 0, false
	}
	return n, true
}

type OfficeLocationResponse struct {
	City  *string `json:"city,omitempty"`
	State *string `json:"state,omitempty"`
}

// String applies the same composition rule as OfficeDetailResponse.
func (o *OfficeLocationResponse) String() (string, bool) {
	if o == nil {
		return "", false
	}
	return joinLocation(o.City, o.State)
}

type SocialResponse struct {
	IdentifierType  *string `json:"identifier_type" validate:"required"`
	IdentifierValue *string `json:"identifier_value" validate:"required"`
}

func joinLocation(city, state *string) (string, bool) {
	if state == nil || *state == "" {
		return "", false
	}
	if city != nil && *city != "" {
		return *city + ", " + *state, true
	}
	return *state, true
}

// DistrictType classifies a seat. The set is closed: unknown codes fail to
// decode.
type DistrictType string

const (
	DistrictNationalExec  DistrictType = "NATIONAL_EXEC"
	DistrictNationalUpper DistrictType = "NATIONAL_UPPER"
	DistrictNationalLower DistrictType = "NATIONAL_LOWER"
	DistrictStateExec     DistrictType = "STATE_EXEC"
	DistrictStateUpper    DistrictType = "STATE_UPPER"
	DistrictStateLower    DistrictType = "STATE_LOWER"
	DistrictLocalExec     DistrictType = "LOCAL_EXEC"
	DistrictLocal         DistrictType = "LOCAL"
)

// DistrictTypes lists every recognized code.
var DistrictTypes = []DistrictType{
	DistrictNationalExec,
	DistrictNationalUpper,
	DistrictNationalLower,
	DistrictStateExec,
	DistrictStateUpper,
	DistrictStateLower,
	DistrictLocalExec,
	DistrictLocal,
}

func (t DistrictType) Valid() bool {
	for _, known := range DistrictTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t *DistrictType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("district type: %w", err)
	}
	if !DistrictType(s).Valid() {
		return fmt.Errorf("unknown district type %q", s)
	}
	*t = DistrictType(s)
	return nil
}

// Timestamp is a time encoded with TimestampLayout, read as UTC.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	ts.Time = t
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.UTC().Format(TimestampLayout))
}

// Decode parses and validates one payload. Nothing is returned unless the
// whole payload conforms: a single JSON document, keys spelled exactly as
// the upstream sends them, every required field present.
func Decode(data []byte) (LegislatorsResponse, error) {
	var resp LegislatorsResponse
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&resp); err != nil {
		return LegislatorsResponse{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return LegislatorsResponse{}, fmt.Errorf("%w: trailing data after payload", ErrMalformedPayload)
	}
	if err := checkKeyCase(data, reflect.TypeFor[LegislatorsResponse]()); err != nil {
		return LegislatorsResponse{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if err := validate.Struct(resp); err != nil {
		return LegislatorsResponse{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return resp, nil
}

var unmarshalerType = reflect.TypeFor[json.Unmarshaler]()

// checkKeyCase rejects object keys that match a field of t only when case is
// ignored. encoding/json accepts "OFFICIALS" for "officials"; the upstream
// contract does not. Keys that match no field at all are still ignored.
func checkKeyCase(data []byte, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Slice:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		for _, item := range items {
			if err := checkKeyCase(item, t.Elem()); err != nil {
				return err
			}
		}
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		for key, val := range obj {
			field, exact := jsonField(t, key)
			if field == nil {
				continue
			}
			if !exact {
				return fmt.Errorf("key %q must be spelled %q", key, jsonName(*field))
			}
			if err := checkKeyCase(val, field.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

// jsonField finds the field key decodes into, preferring an exact match.
func jsonField(t reflect.Type, key string) (*reflect.StructField, bool) {
	var folded *reflect.StructField
	for i := range t.NumField() {
		f := t.Field(i)
		name := jsonName(f)
		if name == "" {
			continue
		}
		if name == key {
			return &f, true
		}
		if folded == nil && strings.EqualFold(name, key) {
			folded = &f
		}
	}
	return folded, false
}

func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
