package output

import (
	"fmt"
	"time"
)

// relativeAge renders how long ago t was, relative to now, using the
// largest whole unit. The calendar approximations match the age filter
// (365-day years, 30-day months).
func relativeAge(t, now time.Time) string {
	age := now.Sub(t)
	if age < time.Minute {
		return "just now"
	}

	units := []struct {
		span time.Duration
		name string
	}{
		{365 * 24 * time.Hour, "year"},
		{30 * 24 * time.Hour, "month"},
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
	}
	for _, u := range units {
		if age >= u.span {
			n := int(age / u.span)
			if n == 1 {
				return fmt.Sprintf("1 %s ago", u.name)
			}
			return fmt.Sprintf("%d %ss ago", n, u.name)
		}
	}
	return "just now"
}
