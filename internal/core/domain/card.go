package domain

import "strings"

// Brand identifies the card network, detected from the number prefix.
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandJCB        Brand = "jcb"
	BrandDiners     Brand = "diners"
	BrandUnknown    Brand = "unknown"
)

// MaskCardNumber masks a cleaned card number irreversibly, keeping the
// first 6 and last 4 digits visible. Numbers shorter than 11 digits are
// fully masked.
func MaskCardNumber(number string) string {
	if len(number) < 11 {
		return strings.Repeat("*", len(number))
	}
	return number[:6] + strings.Repeat("*", len(number)-10) + number[len(number)-4:]
}
