package service

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"github.com/erazemk/assetinv/internal/model"
)

// amountScale is the number of decimal places stored for money columns.
const amountScale = 2

// fallbackDateLayouts are tried when dateparse rejects a string.
var fallbackDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"Mon Jan 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// scientificAmount matches an amount written with an exponent, e.g. "1.5e3".
var scientificAmount = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+[eE][-+]?[0-9]+`)

// ParseAmount coerces a JSON number or a currency-formatted string
// ("₱1,250.50") into a decimal. ok is false when v is absent or holds no number.
func ParseAmount(v any) (d decimal.Decimal, ok bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d.Round(amountScale), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x).Round(amountScale), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case string:
		if m := scientificAmount.FindString(strings.ReplaceAll(x, ",", "")); m != "" {
			d, err := decimal.NewFromString(m)
			if err != nil {
				return decimal.Zero, false
			}
			return d.Round(amountScale), true
		}
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, x)
		if cleaned == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, false
		}
		return d.Round(amountScale), true
	default:
		return decimal.Zero, false
	}
}

// ParseQty coerces a quantity. Absent, non-numeric and values below one all
// become model.DefaultItemQty.
func ParseQty(v any) int {
	var n int64
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			n = i
		} else if f, err := x.Float64(); err == nil {
			n = int64(f)
		}
	case float64:
		n = int64(x)
	case int:
		n = int64(x)
	case int64:
		n = x
	case string:
		s := strings.TrimSpace(x)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			n = i
		} else if f, err := strconv.ParseFloat(s, 64); err == nil {
			n = int64(f)
		}
	}
	if n < 1 || n > math.MaxInt32 {
		return model.DefaultItemQty
	}
	return int(n)
}

// ParseDate accepts any date string dateparse understands (zone-less values
// are read as UTC) or a JSON number of epoch milliseconds. Absent and empty
// values yield nil.
func ParseDate(v any) (*time.Time, error) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		ms, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q", x)
		}
		t = time.UnixMilli(ms)
	case float64:
		t = time.UnixMilli(int64(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		pt, err := parseDateString(s)
		if err != nil {
			return nil, err
		}
		t = pt
	default:
		return nil, fmt.Errorf("unsupported date value %v", v)
	}

	t = t.UTC().Truncate(time.Second)
	return &t, nil
}

func parseDateString(s string) (time.Time, error) {
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, nil
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// dateOnly keeps the calendar date of t at UTC midnight.
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// optional maps blank strings to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
