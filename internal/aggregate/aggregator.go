// Package aggregate buckets alerts into the dashboard's hourly and weekday charts.
package aggregate

import (
	"time"

	"snort-dashboard/internal/model"
)

// Aggregator counts alerts for "today" per hour and for the last seven days per weekday.
// Day boundaries are taken in Location.
type Aggregator struct {
	Location      *time.Location
	Now           func() time.Time
	WeekdayLabels []string

	trends model.Trends
	today  time.Time
	ready  bool
}

// New creates an aggregator for loc using the given weekday labels (Monday first)
func New(loc *time.Location, labels []string) *Aggregator {
	return &Aggregator{Location: loc, Now: time.Now, WeekdayLabels: labels}
}

func (a *Aggregator) init() {
	if a.ready {
		return
	}
	if a.Location == nil {
		a.Location = time.Local
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	a.today = startOfDay(now().In(a.Location))

	labels := a.WeekdayLabels
	if len(labels) != 7 {
		labels = model.DefaultWeekdayLabels
	}
	a.trends = model.Trends{WeekdayLabels: append([]string(nil), labels...)}
	a.ready = true
}

// Add folds one alert into the buckets. Undated alerts are ignored.
func (a *Aggregator) Add(alert model.Alert) {
	a.init()
	if !alert.Dated() {
		return
	}

	t := alert.SortKey.In(a.Location)
	day := startOfDay(t)
	drop := alert.Action == model.ActionDrop

	if day.Equal(a.today) {
		if drop {
			a.trends.Hourly.Drop[t.Hour()]++
		} else {
			a.trends.Hourly.Alert[t.Hour()]++
		}
	}

	// calendar-day distance, safe across DST changes
	age := daysBetween(day, a.today)
	if age < 0 || age > 6 {
		return
	}
	idx := mondayIndex(t.Weekday())
	if drop {
		a.trends.Weekly.Drop[idx]++
	} else {
		a.trends.Weekly.Alert[idx]++
	}
}

// Trends returns the buckets accumulated so far
func (a *Aggregator) Trends() model.Trends {
	a.init()
	return a.trends
}

// Aggregate folds alerts into fresh buckets
func (a *Aggregator) Aggregate(alerts []model.Alert) model.Trends {
	a.ready = false
	for _, alert := range alerts {
		a.Add(alert)
	}
	return a.Trends()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// mondayIndex maps time.Weekday (Sunday=0) to a Monday-first index
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
