package utils

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	postalCodePattern = regexp.MustCompile(`\b\d{5}\b`)
	digitsPattern     = regexp.MustCompile(`\d+`)
	nonPricePattern   = regexp.MustCompile(`[^\d.]+`)
)

// To24Hour converts a 12-hour boundary like "11 AM" or "9:30 PM" to "HH:MM".
// Hour-only form is tried first, then hour:minute. A string that matches
// neither is returned unchanged so the caller can keep the original entry.
func To24Hour(timeStr string) string {
	timeStr = strings.TrimSpace(timeStr)
	if t, err := time.Parse("3 PM", timeStr); err == nil {
		return t.Format("15:04")
	}
	if t, err := time.Parse("3:04 PM", timeStr); err == nil {
		return t.Format("15:04")
	}
	return timeStr
}

// PadClockTime zero-pads an "H:M" boundary into "HH:MM". Anything that is not
// two colon-separated parts comes back unchanged, an empty string becomes
// "00:00" (closed-all-day entries in the structured data).
func PadClockTime(timeStr string) string {
	if timeStr == "" {
		return "00:00"
	}
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return timeStr
	}
	return zeroPad(parts[0]) + ":" + zeroPad(parts[1])
}

func zeroPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ParsePrice strips currency markers, thousands separators and the "+" delta
// prefix, then parses the remainder as a float. Unparseable input degrades to
// 0.0 with a logged warning, never an error.
func ParsePrice(priceStr string) float64 {
	cleaned := strings.NewReplacer("US", "", "$", "", "+", "", ",", "").Replace(priceStr)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0.0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		log.Printf("⚠️ Unable to convert price '%s' to float, defaulting to 0.0", priceStr)
		return 0.0
	}
	return price
}

// ParseDisplayPrice keeps only digits and dots before parsing. Used for the
// positional price markup where the token can carry arbitrary label text.
func ParseDisplayPrice(priceStr string) float64 {
	cleaned := strings.TrimSpace(nonPricePattern.ReplaceAllString(priceStr, ""))
	if cleaned == "" {
		return 0.0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		log.Printf("⚠️ Unable to convert display price '%s' to float, defaulting to 0.0", priceStr)
		return 0.0
	}
	return price
}

// ExtractPostalCode pulls the first 5-digit run out of a free-text display
// address. No match yields an empty string.
func ExtractPostalCode(displayAddress string) string {
	return postalCodePattern.FindString(displayAddress)
}

// ExtractDigits pulls the first integer out of a hint like "Select up to 3".
// Absent digits yield 0.
func ExtractDigits(text string) int {
	match := digitsPattern.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
