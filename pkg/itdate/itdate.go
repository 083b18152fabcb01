// Package itdate handles dates in the Italian DD/MM/YYYY format used on all
// practice forms, and their conversion to the ISO-8601 representation used
// for storage.
package itdate

import (
	"strconv"
	"strings"
	"time"
)

const layoutItalian = "02/01/2006"

// FormatInput applies the DD/MM/YYYY typing mask to raw keyboard input.
// Non-digits are stripped, separators are re-inserted, and the result is
// never longer than ten characters. Partial input is returned as typed so
// far ("15/0" stays "15/0").
func FormatInput(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if len(s) > 8 {
		s = s[:8]
	}

	switch {
	case len(s) <= 2:
		return s
	case len(s) <= 4:
		return s[:2] + "/" + s[2:]
	default:
		return s[:2] + "/" + s[2:4] + "/" + s[4:]
	}
}

// IsValid reports whether s is a complete, valid DD/MM/YYYY date. Day
// validity is checked against the month, including February 29 in leap
// years. Partial input while typing is simply not valid yet; callers only
// evaluate validity on the fully-delimited form.
func IsValid(s string) bool {
	day, month, year, ok := split(s)
	if !ok {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	if year < 1000 || year > 9999 {
		return false
	}
	return day >= 1 && day <= daysInMonth(month, year)
}

// Parse returns the time value for a valid DD/MM/YYYY string. ok is false
// on malformed input; save paths treat that as a validation error.
func Parse(s string) (time.Time, bool) {
	if !IsValid(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(layoutItalian, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ItalianToISO converts DD/MM/YYYY to YYYY-MM-DD. Returns "" on malformed
// input rather than an error.
func ItalianToISO(s string) string {
	t, ok := Parse(s)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// ISOToItalian converts YYYY-MM-DD to DD/MM/YYYY. Returns "" on malformed
// input rather than an error.
func ISOToItalian(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return ""
	}
	return t.Format(layoutItalian)
}

// Age returns the whole years elapsed between the given DD/MM/YYYY date and
// now. ok is false when the input fails validation.
func Age(s string) (int, bool) {
	return AgeAt(s, time.Now())
}

// AgeAt is Age with an injectable clock.
func AgeAt(s string, now time.Time) (int, bool) {
	birth, ok := Parse(s)
	if !ok {
		return 0, false
	}
	years := now.Year() - birth.Year()
	// Birthday not yet reached this year.
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}

// Format renders a time value in the Italian form.
func Format(t time.Time) string {
	return t.Format(layoutItalian)
}

func split(s string) (day, month, year int, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	if len(parts[2]) != 4 {
		return 0, 0, 0, false
	}
	var err error
	if day, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if year, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

func daysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	}
	return 0
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
