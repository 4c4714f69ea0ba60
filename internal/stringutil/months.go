package stringutil

import "time"

// Months maps a zero-based month index to its English name.
var Months = [12]string{
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

// MonthName returns the English name of m, or "" if m is out of range.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return Months[m-1]
}
