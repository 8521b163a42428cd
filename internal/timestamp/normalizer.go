// Package timestamp turns the timestamp encodings found in Snort alert logs
// into a single instant plus a display string.
package timestamp

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DisplayLayout is the canonical layout for alert timestamps shown to users
const DisplayLayout = "2006-01-02 15:04:05"

const notAvailable = "N/A"

// zoned layouts carry their own offset; local layouts are read in the normalizer's location
var zonedLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05-0700",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// year-less fast format layouts, parsed with the current year prepended
var yearlessLayouts = []string{
	"2006/01/02-15:04:05.999999",
	"2006/01/02-15:04:05",
}

// Result is a normalized timestamp. Time is nil when the input could not be dated.
type Result struct {
	Time    *time.Time
	Display string
}

// Normalizer parses timestamps relative to a location and a clock
type Normalizer struct {
	Location *time.Location
	Now      func() time.Time
}

// New returns a normalizer reading offset-less timestamps in loc
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{Location: loc, Now: time.Now}
}

func (n *Normalizer) location() *time.Location {
	if n.Location == nil {
		return time.Local
	}
	return n.Location
}

func (n *Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now().In(n.location())
	}
	return n.Now().In(n.location())
}

// Normalize accepts a string, a JSON number or a Go numeric epoch value.
// Unrecognized input yields a Result with nil Time and the original text as Display.
func (n *Normalizer) Normalize(value interface{}) Result {
	switch v := value.(type) {
	case nil:
		return Result{Display: notAvailable}
	case string:
		return n.NormalizeString(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return n.fromEpoch(f)
		}
		return n.NormalizeString(v.String())
	case float64:
		return n.fromEpoch(v)
	case float32:
		return n.fromEpoch(float64(v))
	case int:
		return n.fromEpoch(float64(v))
	case int64:
		return n.fromEpoch(float64(v))
	default:
		return Result{Display: notAvailable}
	}
}

// NormalizeString parses one of the recognized string layouts
func (n *Normalizer) NormalizeString(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Result{Display: notAvailable}
	}

	if isNumeric(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return n.fromEpoch(f)
		}
	}

	if t, ok := n.Parse(s); ok {
		return n.result(t)
	}
	return Result{Display: raw}
}

// Parse tries every string layout and reports whether one matched
func (n *Normalizer) Parse(s string) (time.Time, bool) {
	loc := n.location()

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if strings.Contains(s, "/") && strings.Contains(s, "-") {
		return n.parseYearless(s)
	}
	return time.Time{}, false
}

// parseYearless assumes the current year, stepping back one year when that would land in the future
func (n *Normalizer) parseYearless(s string) (time.Time, bool) {
	now := n.now()
	loc := n.location()

	for _, layout := range yearlessLayouts {
		for _, year := range []int{now.Year(), now.Year() - 1} {
			t, err := time.ParseInLocation(layout, strconv.Itoa(year)+"/"+s, loc)
			if err != nil {
				// Feb 29 only exists in leap years, try the previous year before giving up
				continue
			}
			if t.After(now) && year == now.Year() {
				continue
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// fromEpoch picks the unit from the magnitude of v
func (n *Normalizer) fromEpoch(v float64) Result {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Result{Display: strconv.FormatFloat(v, 'f', -1, 64)}
	}

	var t time.Time
	switch {
	case v >= 1e17:
		t = time.Unix(0, int64(v))
	case v >= 1e14:
		t = time.UnixMicro(int64(v))
	case v >= 1e11:
		t = time.UnixMilli(int64(v))
	default:
		sec, frac := math.Modf(v)
		t = time.Unix(int64(sec), int64(frac*1e9))
	}
	return n.result(t)
}

func (n *Normalizer) result(t time.Time) Result {
	t = t.In(n.location())
	return Result{Time: &t, Display: t.Format(DisplayLayout)}
}

func isNumeric(s string) bool {
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot && i > 0:
			dot = true
		default:
			return false
		}
	}
	return true
}
