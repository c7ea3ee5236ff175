package common

import (
	"unicode/utf16"

	"github.com/google/uuid"
)

// GenerateUUID returns a fresh random identifier.
func GenerateUUID() string {
	return uuid.New().String()
}

// MaskAPIKey keeps only the first and last four characters of a secret.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// UTF16Len is the length of s in UTF-16 code units, the unit Telegram
// counts message limits in.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// TruncateUTF16 cuts s to at most n UTF-16 code units without splitting a
// rune.
func TruncateUTF16(s string, n int) string {
	units := 0
	for i, r := range s {
		units += utf16.RuneLen(r)
		if units > n {
			return s[:i]
		}
	}
	return s
}
