// Package expiry converts a symbolic expiration choice into an absolute
// UTC instant for the order wire format.
package expiry

import (
	"errors"
	"fmt"
	"time"
)

// Policy names how the expiration instant is chosen.
type Policy string

const (
	// PolicyEndOfDay expires the order at 23:59:59.999 local time on the
	// day the order is placed.
	PolicyEndOfDay Policy = "EndOfDay"
	// PolicyCustom expires the order at a user-supplied instant.
	PolicyCustom Policy = "Custom"
)

// ErrMissingExpiration is returned when the Custom policy is selected
// without a custom instant.
var ErrMissingExpiration = errors.New("expiry: custom policy requires an instant")

// wireFormat is RFC 3339 with millisecond precision, as the venue expects.
const wireFormat = "2006-01-02T15:04:05.000Z07:00"

// Resolve converts an expiration choice into an absolute UTC instant.
//
// When expiration is disabled the result is nil and no expiration field
// is sent. EndOfDay resolves to the end of now's wall-clock day in now's
// location. Custom passes the supplied instant through. All results are
// in UTC. Whether a custom instant lies in the past is checked at
// submission, not here.
func Resolve(enabled bool, policy Policy, custom *time.Time, now time.Time) (*time.Time, error) {
	if !enabled {
		return nil, nil
	}

	switch policy {
	case PolicyEndOfDay:
		y, m, d := now.Date()
		eod := time.Date(y, m, d, 23, 59, 59, 999*int(time.Millisecond), now.Location()).UTC()
		return &eod, nil
	case PolicyCustom:
		if custom == nil {
			return nil, ErrMissingExpiration
		}
		u := custom.UTC()
		return &u, nil
	default:
		return nil, fmt.Errorf("expiry: unknown policy %q", policy)
	}
}

// Format renders a resolved instant for the wire. A nil instant renders
// as the empty string, which the JSON encoder omits.
func Format(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(wireFormat)
}
