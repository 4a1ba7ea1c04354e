package core

import (
	"strconv"
	"strings"
)

// DefaultCountryCode is prepended to national numbers by FormatPhone.
const DefaultCountryCode = "55"

// minPhoneDigits is the shortest number accepted without a warning.
const minPhoneDigits = 10

// FormatPhone turns a human-entered or spreadsheet-mangled phone number into
// a digits-only string prefixed with the country code, ready to be used as a
// WhatsApp JID prefix. It returns "" when no digits remain.
//
//	"+55 (43) 99114-2751" -> "5543991142751"
//	"043991142751"        -> "5543991142751"
//	"5.499114275E+12"     -> "555499114275000"
func FormatPhone(raw, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	s := strings.TrimSpace(raw)
	if strings.Contains(s, "E+") || strings.Contains(s, "e+") {
		s = expandScientific(s)
	}

	digits := onlyDigits(s)
	digits = strings.TrimPrefix(digits, "0")
	if digits == "" {
		return ""
	}

	if !strings.HasPrefix(digits, countryCode) && len(digits) >= minPhoneDigits {
		digits = countryCode + digits
	}
	return digits
}

// PhoneSuspect reports whether a formatted phone is too short to be a real
// number. Suspect numbers are kept but logged.
func PhoneSuspect(formatted string) bool {
	return formatted != "" && len(formatted) < minPhoneDigits
}

// expandScientific re-renders "5.499114275E+12" as "5499114275000". Values
// that do not parse are returned unchanged and left to digit stripping.
func expandScientific(s string) string {
	normalized := strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(strings.TrimPrefix(normalized, "+"), 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
