package services

import (
	"fmt"
	"time"
)

// Age filter states.
const (
	StateOlder = "older"
	StateNewer = "newer"
)

// Duration units accepted by the age filter.
const (
	UnitYear   = "y"
	UnitMonth  = "m"
	UnitDay    = "d"
	UnitHour   = "h"
	UnitMinute = "min"
)

// ageThreshold converts a value + unit pair into a duration. Years and
// months use the calendar approximations the filter has always used
// (365 and 30 days).
func ageThreshold(value int, unit string) (time.Duration, error) {
	v := time.Duration(value)
	switch unit {
	case UnitYear:
		return v * 365 * 24 * time.Hour, nil
	case UnitMonth:
		return v * 30 * 24 * time.Hour, nil
	case UnitDay:
		return v * 24 * time.Hour, nil
	case UnitHour:
		return v * time.Hour, nil
	case UnitMinute:
		return v * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration unit: %q", unit)
	}
}

// filterByAge keeps the records matching the age filter in opts, evaluated
// against now. With no state set every record passes. "older" keeps records
// whose age is at least the threshold; "newer" keeps records younger than
// it.
func filterByAge(records []Record, opts RequestOptions, now time.Time) ([]Record, error) {
	if opts.State == "" {
		return records, nil
	}
	threshold, err := ageThreshold(opts.Value, opts.Duration)
	if err != nil {
		return nil, err
	}

	kept := make([]Record, 0, len(records))
	for _, r := range records {
		age := now.Sub(r.Time)
		switch opts.State {
		case StateOlder:
			if age >= threshold {
				kept = append(kept, r)
			}
		case StateNewer:
			if age < threshold {
				kept = append(kept, r)
			}
		default:
			return nil, fmt.Errorf("invalid filter state: %q", opts.State)
		}
	}
	return kept, nil
}
