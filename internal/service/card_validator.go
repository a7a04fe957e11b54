package service

import (
	"regexp"
	"strings"
	"time"

	"sandbox-payment-gateway/internal/core/domain"
)

var cardNumberRe = regexp.MustCompile(`^[0-9]{12,19}$`)

// brandPatterns are checked in order; prefixes are disjoint so the order is
// cosmetic except for documentation.
var brandPatterns = []struct {
	brand domain.Brand
	re    *regexp.Regexp
}{
	{domain.BrandVisa, regexp.MustCompile(`^4`)},
	{domain.BrandMastercard, regexp.MustCompile(`^(5[1-5]|2[2-7])`)},
	{domain.BrandAmex, regexp.MustCompile(`^3[47]`)},
	{domain.BrandDiscover, regexp.MustCompile(`^6(011|5)`)},
	{domain.BrandDiners, regexp.MustCompile(`^3(0[0-5]|[68])`)},
	{domain.BrandJCB, regexp.MustCompile(`^35`)},
}

// CleanCardNumber strips spaces, tabs and hyphens from a card number.
func CleanCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "\t", "", "-", "").Replace(number)
}

// DetectBrand returns the card brand for a number, BrandUnknown when no
// prefix pattern matches. Never panics on malformed input.
func DetectBrand(number string) domain.Brand {
	clean := CleanCardNumber(number)
	for _, p := range brandPatterns {
		if p.re.MatchString(clean) {
			return p.brand
		}
	}
	return domain.BrandUnknown
}

// IsFormatValid reports whether the number is a 12-19 digit numeric string
// after whitespace removal.
func IsFormatValid(number string) bool {
	return cardNumberRe.MatchString(CleanCardNumber(number))
}

// IsLuhnValid applies the standard Luhn checksum. Numbers failing the
// 12-19 digit format check are rejected outright.
func IsLuhnValid(number string) bool {
	clean := CleanCardNumber(number)
	if !cardNumberRe.MatchString(clean) {
		return false
	}

	sum := 0
	double := false
	for i := len(clean) - 1; i >= 0; i-- {
		d := int(clean[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// IsExpiryValid reports whether month/year (4-digit) is the current month
// or later. Month must be in [1,12].
func IsExpiryValid(month, year int) bool {
	return expiryValidAt(month, year, time.Now())
}

func expiryValidAt(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return false
	}
	if year != now.Year() {
		return year > now.Year()
	}
	return month >= int(now.Month())
}
