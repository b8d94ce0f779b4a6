// Package duration parses the "-stop D U" CLI argument pair into a
// nanosecond count, matching the unit-prefix rules of the original
// reactor.c's process_args (strncmp against fixed prefix lengths rather
// than a full string match). Deliberately kept outside the reactor
// package: command-line parsing and unit conversion are an external
// collaborator of the core, not part of it.
package duration

import (
	"fmt"
	"strconv"
)

// Unit is one nanosecond-per-unit conversion factor.
type Unit struct {
	// prefixLen is how many leading characters of the user-supplied unit
	// string participate in matching — the original's strncmp lengths:
	// 3 for "sec"/"day", 4 for "msec"/"usec"/"nsec"/"hour"/"week", 6 for
	// "minute". Matching only the prefix means any trailing text
	// ("sec", "secs", "second", "seconds") matches the same unit.
	name      string
	prefixLen int
	nanos     int64
}

var units = []Unit{
	{name: "nsec", prefixLen: 4, nanos: 1},
	{name: "usec", prefixLen: 4, nanos: 1_000},
	{name: "msec", prefixLen: 4, nanos: 1_000_000},
	{name: "sec", prefixLen: 3, nanos: 1_000_000_000},
	{name: "minute", prefixLen: 6, nanos: 60 * 1_000_000_000},
	{name: "hour", prefixLen: 4, nanos: 3600 * 1_000_000_000},
	{name: "day", prefixLen: 3, nanos: 86400 * 1_000_000_000},
	{name: "week", prefixLen: 4, nanos: 7 * 86400 * 1_000_000_000},
}

// Parse converts a (count, unit) pair as accepted by "-stop D U" into a
// nanosecond Interval-compatible int64. count must be a nonnegative
// base-10 integer literal ("0" is valid); unit is matched by prefix
// against the table above, so plural and long forms are accepted too.
func Parse(count, unit string) (int64, error) {
	n, err := strconv.ParseInt(count, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("duration: invalid count %q: must be a nonnegative integer", count)
	}

	for _, u := range units {
		if len(unit) < u.prefixLen {
			continue
		}
		if unit[:u.prefixLen] == u.name {
			return n * u.nanos, nil
		}
	}

	return 0, fmt.Errorf("duration: unrecognised unit %q", unit)
}
