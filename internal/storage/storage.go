package storage

import (
	"sort"
	"strconv"
	"strings"

	"snort-dashboard/internal/model"
)

// DefaultPageSize is the number of alerts per page when none is configured
const DefaultPageSize = 50

// Store holds the alerts read for one request
type Store struct {
	alerts []model.Alert
}

// PageResult is one page of alerts plus the data needed to render pagination
type PageResult struct {
	Items       []model.Alert `json:"items"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	Total       int           `json:"total"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// NewStore creates a new store over alerts
func NewStore(alerts []model.Alert) *Store {
	return &Store{alerts: alerts}
}

// Len returns the number of stored alerts
func (s *Store) Len() int {
	return len(s.alerts)
}

// Filter returns the alerts matching every set predicate of f, in stored order
func (s *Store) Filter(f model.Filter) []model.Alert {
	filtered := make([]model.Alert, 0, len(s.alerts))
	if f.Empty() {
		return append(filtered, s.alerts...)
	}

	m := newMatcher(f)
	for i := range s.alerts {
		if m.match(&s.alerts[i]) {
			filtered = append(filtered, s.alerts[i])
		}
	}
	return filtered
}

// Query filters, sorts newest first and returns the requested page
func (s *Store) Query(f model.Filter, page string, size int) PageResult {
	return Page(SortByRecency(s.Filter(f)), page, size)
}

// matcher has the filter values lower-cased once
type matcher struct {
	f         model.Filter
	search    string
	signature string
	srcIP     string
	dstIP     string
	protocol  string
	action    model.Action
}

func newMatcher(f model.Filter) matcher {
	m := matcher{
		f:         f,
		search:    strings.ToLower(f.Search),
		signature: strings.ToLower(f.Signature),
		srcIP:     strings.ToLower(f.SrcIP),
		dstIP:     strings.ToLower(f.DstIP),
		protocol:  strings.ToLower(f.Protocol),
	}
	// drop synonyms normalize; any other unknown value matches nothing
	if f.Action != "" {
		m.action = model.Action(strings.ToLower(f.Action))
		if model.ParseAction(f.Action) == model.ActionDrop {
			m.action = model.ActionDrop
		}
	}
	return m
}

func (m matcher) match(a *model.Alert) bool {
	if m.search != "" && !contains(a.Haystack(), m.search) {
		return false
	}
	if m.signature != "" && !contains(a.Signature, m.signature) {
		return false
	}
	if m.srcIP != "" && !contains(a.SrcIP, m.srcIP) {
		return false
	}
	if m.dstIP != "" && !contains(a.DstIP, m.dstIP) {
		return false
	}
	if m.protocol != "" && !contains(a.Protocol, m.protocol) {
		return false
	}
	if m.f.SrcPort != "" && a.SrcPort != m.f.SrcPort {
		return false
	}
	if m.f.DstPort != "" && a.DstPort != m.f.DstPort {
		return false
	}
	if m.action != "" && a.Action != m.action {
		return false
	}

	if m.f.TimeFrom != nil || m.f.TimeTo != nil {
		if !a.Dated() {
			return false
		}
		if m.f.TimeFrom != nil && a.SortKey.Before(*m.f.TimeFrom) {
			return false
		}
		if m.f.TimeTo != nil && a.SortKey.After(*m.f.TimeTo) {
			return false
		}
	}
	return true
}

// SortByRecency sorts alerts newest first in place, undated alerts last, keeping input order on ties
func SortByRecency(alerts []model.Alert) []model.Alert {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i].SortKey, alerts[j].SortKey
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return alerts
}

// Page slices alerts into one page. Non-numeric pages fall back to the first one,
// out of range pages are clamped.
func Page(alerts []model.Alert, page string, size int) PageResult {
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(alerts)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	n, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || n < 1 {
		n = 1
	}
	if n > totalPages {
		n = totalPages
	}

	start := (n - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	items := make([]model.Alert, 0, end-start)
	items = append(items, alerts[start:end]...)

	return PageResult{
		Items:       items,
		Page:        n,
		PageSize:    size,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     n < totalPages,
		HasPrevious: n > 1,
	}
}

// contains reports whether the lower-cased s contains needle, which must already be lower case
func contains(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}
