package model

// HourLabels are the display labels for the 24 hourly buckets
func HourLabels() []string {
	labels := make([]string, 24)
	for h := 0; h < 24; h++ {
		labels[h] = twoDigits(h) + ".00"
	}
	return labels
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

// DefaultWeekdayLabels are Monday-first weekday names as shown on the original dashboard
var DefaultWeekdayLabels = []string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

// HourBuckets counts today's alerts per hour of day, split by action
type HourBuckets struct {
	Alert [24]int
	Drop  [24]int
}

// WeekdayBuckets counts the last seven days of alerts per weekday (Monday first), split by action
type WeekdayBuckets struct {
	Alert [7]int
	Drop  [7]int
}

// Trends is the chart data produced by the aggregator
type Trends struct {
	Hourly        HourBuckets
	Weekly        WeekdayBuckets
	WeekdayLabels []string
}
