package model

import (
	"strings"
	"time"
)

// NotAvailable is the placeholder for any alert field the source did not carry
const NotAvailable = "N/A"

// Action represents what the sensor did with the packet
type Action string

const (
	ActionAlert Action = "alert"
	ActionDrop  Action = "drop"
)

// ParseAction maps drop/block synonyms to ActionDrop and everything else to ActionAlert
func ParseAction(raw string) Action {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "drop", "dropped", "block", "blocked":
		return ActionDrop
	default:
		return ActionAlert
	}
}

func (a Action) String() string {
	return string(a)
}

// Format identifies the encoding an alert was parsed from
type Format string

const (
	FormatJSON Format = "json"
	FormatFast Format = "fast"
)

// Alert is one normalized intrusion-detection event
type Alert struct {
	Timestamp string     `json:"timestamp"`
	SortKey   *time.Time `json:"sort_key"`
	Signature string     `json:"signature"`
	SrcIP     string     `json:"src_ip"`
	SrcPort   string     `json:"src_port"`
	DstIP     string     `json:"dst_ip"`
	DstPort   string     `json:"dst_port"`
	Protocol  string     `json:"protocol"`
	Priority  string     `json:"priority"`
	Action    Action     `json:"action"`
	Format    Format     `json:"format"`
	Source    string     `json:"source"`
}

// NewAlert returns an alert with every field set to its placeholder
func NewAlert(format Format) Alert {
	return Alert{
		Timestamp: NotAvailable,
		Signature: NotAvailable,
		SrcIP:     NotAvailable,
		SrcPort:   NotAvailable,
		DstIP:     NotAvailable,
		DstPort:   NotAvailable,
		Protocol:  NotAvailable,
		Priority:  NotAvailable,
		Action:    ActionAlert,
		Format:    format,
		Source:    NotAvailable,
	}
}

// OrNA returns s trimmed, or NotAvailable when nothing is left
func OrNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	return s
}

// Dated reports whether the alert carries a usable sort key
func (a Alert) Dated() bool {
	return a.SortKey != nil
}

// Haystack is the text matched by the free-form search filter
func (a Alert) Haystack() string {
	return strings.Join([]string{
		a.Timestamp, a.Signature,
		a.SrcIP, a.SrcPort, a.DstIP, a.DstPort,
		a.Protocol, a.Priority, string(a.Action),
	}, " ")
}

// ActiveFile is a log file that contributed records to a response
type ActiveFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ClearError records a log file that could not be truncated
type ClearError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ClearResult summarizes a clear-logs run
type ClearResult struct {
	Cleared int          `json:"cleared"`
	Errors  []ClearError `json:"errors"`
}
