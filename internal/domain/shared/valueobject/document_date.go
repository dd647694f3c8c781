package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/chatbot/internal/domain/shared"
)

// ISODateLayout is the canonical calendar date representation used throughout the system
const ISODateLayout = "2006-01-02"

// acceptedDateLayouts lists every input format a user may supply, in priority order.
// The first layout that parses wins. The ordering is a disambiguation policy:
// ISO year-first is tried before day-first, which is tried before month-first,
// so "03-04-2025" always means 3 April 2025. Do not reorder.
var acceptedDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"01-02-2006",
	"01/02/2006",
	"2006-Jan-02",
	"2006-January-02",
	"02-Jan-2006",
	"02-January-2006",
	"02-Jan-06",
	"02-January-06",
	"2006/Jan/02",
	"02/Jan/2006",
	"02/January/2006",
}

// DocumentDate is a value object representing a business document's calendar date.
// It is immutable and always renders in ISO-8601 form.
type DocumentDate struct {
	t time.Time
}

// ParseDocumentDate normalizes a user-supplied date string.
// It attempts each accepted layout in order and returns the first successful
// parse. Semantic validation (month 13, day 32) is left to the calendar parse
// itself. Returns shared.ErrInvalidDateFormat when no layout matches.
func ParseDocumentDate(raw string) (DocumentDate, error) {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DocumentDate{t: t}, nil
		}
	}
	return DocumentDate{}, shared.ErrInvalidDateFormat
}

// NewDocumentDate creates a DocumentDate from a time.Time, truncating to the calendar day
func NewDocumentDate(t time.Time) DocumentDate {
	return DocumentDate{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// IsZero reports whether the date has not been set
func (d DocumentDate) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the underlying time.Time
func (d DocumentDate) Time() time.Time {
	return d.t
}

// String returns the ISO-8601 representation, or "" for the zero value
func (d DocumentDate) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(ISODateLayout)
}

// Equal reports whether two dates fall on the same calendar day
func (d DocumentDate) Equal(other DocumentDate) bool {
	return d.String() == other.String()
}

// MarshalJSON implements json.Marshaler
func (d DocumentDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *DocumentDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = DocumentDate{}
		return nil
	}
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid document date %q: %w", s, err)
	}
	*d = DocumentDate{t: t}
	return nil
}

// Value implements driver.Valuer for database storage
func (d DocumentDate) Value() (driver.Value, error) {
	if d.t.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (d *DocumentDate) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = DocumentDate{}
		return nil
	case time.Time:
		*d = NewDocumentDate(v)
		return nil
	case string:
		t, err := time.Parse(ISODateLayout, v)
		if err != nil {
			return fmt.Errorf("cannot scan %q into DocumentDate: %w", v, err)
		}
		*d = DocumentDate{t: t}
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DocumentDate", value)
	}
}
