package model

import (
	"net/url"
	"strings"
	"time"

	"snort-dashboard/internal/timestamp"
)

// query parameter names understood by FilterFromQuery
const (
	ParamSearch    = "search"
	ParamSignature = "signature"
	ParamSrcIP     = "src_ip"
	ParamDstIP     = "dst_ip"
	ParamSrcPort   = "src_port"
	ParamDstPort   = "dst_port"
	ParamProtocol  = "protocol"
	ParamAction    = "action"
	ParamTimeFrom  = "time_from"
	ParamTimeTo    = "time_to"
)

// datetime-local input values, minute precision
var formLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Filter holds the optional predicates of an alert query. Empty strings are absent.
type Filter struct {
	Search    string     `json:"search"`
	Signature string     `json:"signature"`
	SrcIP     string     `json:"src_ip"`
	DstIP     string     `json:"dst_ip"`
	SrcPort   string     `json:"src_port"`
	DstPort   string     `json:"dst_port"`
	Protocol  string     `json:"protocol"`
	Action    string     `json:"action"`
	TimeFrom  *time.Time `json:"time_from"`
	TimeTo    *time.Time `json:"time_to"`

	// Invalid maps a time parameter to the raw value that could not be parsed
	Invalid map[string]string `json:"invalid,omitempty"`
}

// Empty reports whether no predicate is set
func (f Filter) Empty() bool {
	return f.Search == "" && f.Signature == "" && f.SrcIP == "" && f.DstIP == "" &&
		f.SrcPort == "" && f.DstPort == "" && f.Protocol == "" && f.Action == "" &&
		f.TimeFrom == nil && f.TimeTo == nil
}

// FilterFromQuery builds a Filter from request parameters. Time values go through
// the normalizer first, then the form layouts in the normalizer's location.
func FilterFromQuery(query url.Values, normalizer *timestamp.Normalizer) Filter {
	get := func(key string) string {
		return strings.TrimSpace(query.Get(key))
	}

	f := Filter{
		Search:    get(ParamSearch),
		Signature: get(ParamSignature),
		SrcIP:     get(ParamSrcIP),
		DstIP:     get(ParamDstIP),
		SrcPort:   get(ParamSrcPort),
		DstPort:   get(ParamDstPort),
		Protocol:  get(ParamProtocol),
		Action:    get(ParamAction),
	}

	for _, key := range []string{ParamTimeFrom, ParamTimeTo} {
		raw := get(key)
		if raw == "" {
			continue
		}
		t, ok := parseFilterTime(raw, normalizer)
		if !ok {
			if f.Invalid == nil {
				f.Invalid = make(map[string]string)
			}
			f.Invalid[key] = raw
			continue
		}
		if key == ParamTimeFrom {
			f.TimeFrom = &t
		} else {
			f.TimeTo = &t
		}
	}

	return f
}

func parseFilterTime(raw string, normalizer *timestamp.Normalizer) (time.Time, bool) {
	if res := normalizer.NormalizeString(raw); res.Time != nil {
		return *res.Time, true
	}
	loc := normalizer.Location
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range formLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
