package http

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// emailRe accepts anything of the shape local@domain.tld without whitespace.
// Deliverability is settled by the reset email itself, not the regex.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(s string) bool {
	return emailRe.MatchString(s)
}

var (
	latBound = decimal.NewFromInt(90)
	lngBound = decimal.NewFromInt(180)
)

// validCoordinates checks latitude in [-90, 90] and longitude in [-180, 180];
// nil coordinates are allowed.
func validCoordinates(lat, lng *decimal.Decimal) bool {
	if lat != nil && lat.Abs().GreaterThan(latBound) {
		return false
	}
	if lng != nil && lng.Abs().GreaterThan(lngBound) {
		return false
	}
	return true
}
