// Package timeexpr parses the duration and offset expressions accepted on
// the command line.
//
// Accepted notations:
//
//	90s, 1h30m              Go durations
//	90, 2.5                 seconds
//	1:02:03, 02:03, 0:10.5  clock time
//	timedelta(minutes=1)    Python's timedelta constructor, as older
//	timedelta(0, 30)        scripts wrote them
package timeexpr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrSyntax = errors.New("invalid duration expression")

// Parse turns an expression into a duration. Negative values are accepted;
// range checks belong to the caller.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrSyntax)
	}

	switch {
	case strings.HasPrefix(s, "timedelta(") || strings.HasPrefix(s, "datetime.timedelta("):
		return parseTimedelta(s)
	case strings.Contains(s, ":"):
		return parseClock(s)
	}

	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSeconds(secs, s)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return d, nil
}

func fromSeconds(secs float64, orig string) (time.Duration, error) {
	ns := secs * float64(time.Second)
	if math.IsNaN(ns) || math.Abs(ns) >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q out of range", ErrSyntax, orig)
	}
	return time.Duration(math.Round(ns)), nil
}

// parseClock handles [H:]MM:SS[.fff].
func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || secs >= 60 {
		return 0, fmt.Errorf("%w: bad seconds in %q", ErrSyntax, s)
	}

	var whole [2]int64 // hours, minutes
	for i, p := range parts[:len(parts)-1] {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		whole[2-(len(parts)-1)+i] = n
	}
	if len(parts) == 3 && whole[1] >= 60 {
		return 0, fmt.Errorf("%w: bad minutes in %q", ErrSyntax, s)
	}

	return fromSeconds(float64(whole[0])*3600+float64(whole[1])*60+secs, s)
}

// timedeltaUnits are the timedelta arguments in positional order, in seconds.
var timedeltaUnits = []struct {
	name    string
	seconds float64
}{
	{"days", 86400},
	{"seconds", 1},
	{"microseconds", 1e-6},
	{"milliseconds", 1e-3},
	{"minutes", 60},
	{"hours", 3600},
	{"weeks", 7 * 86400},
}

func parseTimedelta(s string) (time.Duration, error) {
	s = strings.TrimPrefix(s, "datetime.")
	if !strings.HasSuffix(s, ")") {
		return 0, fmt.Errorf("%w: unbalanced parentheses in %q", ErrSyntax, s)
	}
	body := strings.TrimSpace(s[len("timedelta(") : len(s)-1])

	total := 0.0
	if body == "" {
		return 0, nil
	}

	seen := map[string]bool{}
	keywords := false
	for i, arg := range strings.Split(body, ",") {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			// Trailing comma.
			if i > 0 && i == strings.Count(body, ",") {
				continue
			}
			return 0, fmt.Errorf("%w: empty argument in %q", ErrSyntax, s)
		}

		var unit string
		var value string
		if k, v, ok := strings.Cut(arg, "="); ok {
			unit = strings.TrimSpace(k)
			value = strings.TrimSpace(v)
			keywords = true
		} else {
			if keywords {
				return 0, fmt.Errorf("%w: positional argument after keyword in %q", ErrSyntax, s)
			}
			if i >= len(timedeltaUnits) {
				return 0, fmt.Errorf("%w: too many arguments in %q", ErrSyntax, s)
			}
			unit = timedeltaUnits[i].name
			value = arg
		}

		if seen[unit] {
			return 0, fmt.Errorf("%w: %s given twice in %q", ErrSyntax, unit, s)
		}
		seen[unit] = true

		scale, ok := unitSeconds(unit)
		if !ok {
			return 0, fmt.Errorf("%w: unknown unit %q", ErrSyntax, unit)
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad value %q for %s", ErrSyntax, value, unit)
		}
		total += n * scale
	}

	return fromSeconds(total, s)
}

func unitSeconds(name string) (float64, bool) {
	for _, u := range timedeltaUnits {
		if u.name == name {
			return u.seconds, true
		}
	}
	return 0, false
}
