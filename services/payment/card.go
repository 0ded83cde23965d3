package payment

import (
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	CardVisa       = "Visa"
	CardMasterCard = "MasterCard"
	CardAmex       = "Amex"
	CardUnknown    = "Unknown"
)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCardNumber accepts any input carrying at least 15 digits once separators are dropped.
func ValidateCardNumber(number string) bool {
	return len(digitsOnly(number)) >= 15
}

// ValidateExpiryDate only checks for the MM/YY separator.
func ValidateExpiryDate(expiry string) bool {
	return strings.Contains(expiry, "/")
}

// ValidateCVV requires at least three digits and nothing else.
func ValidateCVV(cvv string) bool {
	cvv = strings.TrimSpace(cvv)
	return len(cvv) >= 3 && digitsOnly(cvv) == cvv
}

// MaskCardNumber hides everything but the last four digits.
func MaskCardNumber(number string) string {
	digits := digitsOnly(number)
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

// FormatCardNumber groups the digits in blocks of four.
func FormatCardNumber(number string) string {
	digits := digitsOnly(number)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DetectCardType returns the card network implied by the leading digits.
func DetectCardType(number string) string {
	digits := digitsOnly(number)
	switch {
	case strings.HasPrefix(digits, "4"):
		return CardVisa
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return CardAmex
	case inPrefixRange(digits, 2, 51, 55), inPrefixRange(digits, 4, 2221, 2720):
		return CardMasterCard
	}
	return CardUnknown
}

func inPrefixRange(digits string, width, lo, hi int) bool {
	if len(digits) < width {
		return false
	}
	n, err := strconv.Atoi(digits[:width])
	if err != nil {
		return false
	}
	return n >= lo && n <= hi
}

// Fingerprint is a keyed hash of the card digits, stable across requests and safe to log.
func Fingerprint(secret []byte, number string) string {
	if len(secret) > blake2b.Size {
		secret = secret[:blake2b.Size]
	}
	h, err := blake2b.New256(secret)
	if err != nil {
		return ""
	}
	h.Write([]byte(digitsOnly(number)))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
