package gex

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// UnknownExpiry labels instruments whose name does not carry an expiry field.
const UnknownExpiry = "UNKNOWN"

// expiryPattern matches Deribit expiry tokens like "28MAR25".
var expiryPattern = regexp.MustCompile(`^(\d{1,2})([A-Z]{3})(\d{2})$`)

var monthsByToken = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// ExpiryToken extracts the expiry field from a Deribit instrument name.
// Names look like BTC-28MAR25-50000-C; the expiry is the second field.
// A name with fewer than two fields yields UnknownExpiry.
func ExpiryToken(instrumentName string) string {
	parts := strings.Split(instrumentName, "-")
	if len(parts) < 2 {
		return UnknownExpiry
	}
	return parts[1]
}

// ParseExpiry parses an expiry token to a calendar date (UTC midnight).
// Tokens that do not match the DDMMMYY grammar parse to the Unix epoch,
// which sorts them ahead of every real expiry.
func ParseExpiry(token string) time.Time {
	m := expiryPattern.FindStringSubmatch(token)
	if m == nil {
		return time.Unix(0, 0).UTC()
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := monthsByToken[m[2]]
	if !ok {
		month = time.January
	}
	yy, _ := strconv.Atoi(m[3])
	return time.Date(2000+yy, month, day, 0, 0, 0, 0, time.UTC)
}

// SortExpiries orders tokens ascending by their parsed date, in place.
func SortExpiries(tokens []string) {
	sort.Slice(tokens, func(i, j int) bool {
		return ParseExpiry(tokens[i]).Before(ParseExpiry(tokens[j]))
	})
}
