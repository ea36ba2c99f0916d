package entities

import "time"

// DOBWindow is the date-of-birth interval an age range translates to at a
// given observation time. Earliest bounds the maximum age, Latest the
// minimum; zero values mean unbounded.
type DOBWindow struct {
	Earliest time.Time
	Latest   time.Time
}

func (r AgeRange) Window(now time.Time) DOBWindow {
	var window DOBWindow
	if r.Max != nil {
		window.Earliest = now.AddDate(-*r.Max, 0, 0)
	}
	if r.Min != nil {
		window.Latest = now.AddDate(-*r.Min, 0, 0)
	}
	return window
}
