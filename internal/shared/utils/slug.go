package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 240

var (
	slugInvalid   = regexp.MustCompile(`[^a-z0-9\s-]+`)
	slugSeparator = regexp.MustCompile(`[\s-]+`)
)

// GenerateSlug: "Xin chào, Thế giới!" → "xin-chao-the-gioi"
func GenerateSlug(input string) string {
	// Step 1: bỏ dấu (NFD rồi loại combining marks)
	ascii := RemoveDiacritics(input)

	// Step 2: lowercase, chỉ giữ a-z, 0-9, khoảng trắng và hyphen
	cleaned := slugInvalid.ReplaceAllString(strings.ToLower(ascii), "")

	// Step 3: gộp khoảng trắng / hyphen liên tiếp thành một hyphen
	slug := strings.Trim(slugSeparator.ReplaceAllString(cleaned, "-"), "-")

	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

// SlugWithSuffix appends "-n" for n > 1; n <= 1 returns base unchanged.
func SlugWithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// RemoveDiacritics strips combining marks. đ/Đ have no decomposition so they are mapped by hand.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		out = input
	}
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}
