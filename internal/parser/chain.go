// Package parser turns raw alert log lines into normalized model.Alert values.
//
// Each LineParser either recognizes a line or declines it; declining is never
// an error. A Chain tries its parsers in order and the first match wins.
package parser

import (
	"strings"

	"snort-dashboard/internal/model"
	"snort-dashboard/internal/timestamp"
)

// LineParser recognizes one alert encoding
type LineParser interface {
	Name() string
	Parse(line string) (model.Alert, bool)
}

// Chain tries parsers in a fixed priority order
type Chain struct {
	parsers []LineParser
}

// NewChain creates a chain trying parsers in the given order
func NewChain(parsers ...LineParser) *Chain {
	return &Chain{parsers: parsers}
}

// Default returns the JSON-then-fast chain used for Snort logs
func Default(normalizer *timestamp.Normalizer) *Chain {
	return NewChain(NewJSONParser(normalizer), NewFastParser(normalizer))
}

// Parse returns the first match. Blank lines never match.
func (c *Chain) Parse(line string) (model.Alert, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.Alert{}, false
	}
	for _, p := range c.parsers {
		if alert, ok := p.Parse(line); ok {
			return alert, true
		}
	}
	return model.Alert{}, false
}

// Names lists the parsers in priority order
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.parsers))
	for _, p := range c.parsers {
		names = append(names, p.Name())
	}
	return names
}
