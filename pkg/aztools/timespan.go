package aztools

import (
	"time"

	"github.com/sosodev/duration"
)

const DefaultTimespan = "P1D"

// ParseTimespan parses an ISO-8601 duration such as "PT12H" or "P7D".
// An empty string selects DefaultTimespan.
func ParseTimespan(s string) (time.Duration, error) {
	if s == "" {
		s = DefaultTimespan
	}

	d, err := duration.Parse(s)
	if err != nil {
		return 0, NewToolError(ErrorTypeInvalidArgument, "timespan must be an ISO-8601 duration (e.g. P1D, PT6H)", "timespan").
			WithContext("value", s)
	}

	td := d.ToTimeDuration()
	if td <= 0 {
		return 0, NewToolError(ErrorTypeInvalidArgument, "timespan must be positive", "timespan").
			WithContext("value", s)
	}
	return td, nil
}
