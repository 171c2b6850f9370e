// Package celogindate implements the date parsing and expiration-comparison
// rules used by the ACF validator: a yyyy-mm-dd expiration date is treated
// as valid through the end of that UTC day.
package celogindate

import (
	"strconv"
	"strings"
	"time"

	"github.com/openbmc-project/celogin/celoginrc"
)

// ParseExpirationDate parses a "yyyy-mm-dd" string and returns the absolute
// Unix instant of the end of that UTC day (exclusive boundary: the instant
// returned is midnight UTC of the day AFTER the given date). Non-positive
// year, month, or day components fail.
func ParseExpirationDate(s string) (int64, celoginrc.Code) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, celoginrc.DateFromStringInvalidFormat
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return 0, celoginrc.DateFromStringInvalidComponent
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month <= 0 || month > 12 {
		return 0, celoginrc.DateFromStringInvalidComponent
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day <= 0 || day > 31 {
		return 0, celoginrc.DateFromStringInvalidComponent
	}
	expirationDay := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	endOfDayExclusive := expirationDay.AddDate(0, 0, 1)
	return endOfDayExclusive.Unix(), celoginrc.Success
}

// IsExpired reports whether nowUnix has reached the end-of-day-UTC-exclusive
// boundary represented by expirationBoundaryUnix (as returned by
// ParseExpirationDate: midnight UTC of the day after the expiration date).
// The expiration date itself is valid through its last UTC second; the
// instant of the following midnight is already expired.
func IsExpired(nowUnix, expirationBoundaryUnix int64) bool {
	return nowUnix >= expirationBoundaryUnix
}
