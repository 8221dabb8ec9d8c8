package dataframe

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the type of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// DateLayout is the canonical rendering of date values.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
}

// Value is a single typed cell. The zero Value is an empty string.
type Value struct {
	kind Kind
	null bool
	str  string
	num  decimal.Decimal
	date time.Time
}

func String(s string) Value { return Value{kind: KindString, str: s} }
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }
func Int(i int64) Value { return Number(decimal.NewFromInt(i)) }
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }
func Null(kind Kind) Value { return Value{kind: kind, null: true} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.null }

func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.kind != KindNumber || v.null {
		return decimal.Zero, false
	}
	return v.num, true
}

func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate || v.null {
		return time.Time{}, false
	}
	return v.date, true
}

// Text renders the value for grouping and display. Nulls render as "".
func (v Value) Text() string {
	if v.null {
		return ""
	}
	switch v.kind {
	case KindNumber:
		return v.num.String()
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return v.str
	}
}

// Interface returns the value as a plain Go type for drivers and encoders.
func (v Value) Interface() interface{} {
	if v.null {
		return nil
	}
	switch v.kind {
	case KindNumber:
		return v.num
	case KindDate:
		return v.date
	default:
		return v.str
	}
}

// Equal compares kind and content. Nulls never equal anything.
func (v Value) Equal(o Value) bool {
	if v.null || o.null || v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num.Equal(o.num)
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return v.str == o.str
	}
}

// ParseValue converts raw text to a value of the given kind.
// Blank text yields a null of that kind.
func ParseValue(kind Kind, raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	switch kind {
	case KindNumber:
		if s == "" {
			return Null(KindNumber), nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Value{}, err
		}
		return Number(d), nil
	case KindDate:
		if s == "" {
			return Null(KindDate), nil
		}
		t, err := parseDate(s)
		if err != nil {
			return Value{}, err
		}
		return Date(t), nil
	default:
		return String(raw), nil
	}
}

func parseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// inferKind picks the narrowest kind every non-blank cell parses as.
func inferKind(cells []string) Kind {
	number, date, seen := true, true, false
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		seen = true
		if number {
			if _, err := decimal.NewFromString(c); err != nil {
				number = false
			}
		}
		if date {
			if _, err := parseDate(c); err != nil {
				date = false
			}
		}
		if !number && !date {
			return KindString
		}
	}
	switch {
	case !seen:
		return KindString
	case number:
		return KindNumber
	case date:
		return KindDate
	}
	return KindString
}
