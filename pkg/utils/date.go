package utils

import "strconv"

var monthAbbreviations = map[int]string{
	1: "Jan", 2: "Feb", 3: "Mar", 4: "Apr", 5: "May", 6: "Jun",
	7: "Jul", 8: "Aug", 9: "Sep", 10: "Oct", 11: "Nov", 12: "Dec",
}

var monthNames = map[int]string{
	1: "January", 2: "February", 3: "March", 4: "April",
	5: "May", 6: "June", 7: "July", 8: "August",
	9: "September", 10: "October", 11: "November", 12: "December",
}

// MonthName returns the three-letter abbreviation for a month number.
// Values outside 1-12 fall back to the stringified integer.
func MonthName(month int) string {
	if name, ok := monthAbbreviations[month]; ok {
		return name
	}
	return strconv.Itoa(month)
}

// MonthFullName returns the full English month name, with the same fallback
// as MonthName.
func MonthFullName(month int) string {
	if name, ok := monthNames[month]; ok {
		return name
	}
	return strconv.Itoa(month)
}
