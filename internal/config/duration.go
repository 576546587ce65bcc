package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var lifetimePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]*)$`)

var lifetimeUnits = map[string]time.Duration{
	"ms": time.Millisecond, "msec": time.Millisecond, "msecs": time.Millisecond,
	"millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second,
	"second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute,
	"minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour,
	"hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
	"y": 8766 * time.Hour, "yr": 8766 * time.Hour, "yrs": 8766 * time.Hour,
	"year": 8766 * time.Hour, "years": 8766 * time.Hour,
}

// ParseLifetime reads Go durations ("1h30m") as well as the single unit
// forms used by jsonwebtoken ("7d", "2 days", "12h"). A bare number is a
// count of seconds.
func ParseLifetime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}

	m := lifetimePattern.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}

	unit := time.Second
	if m[2] != "" {
		var ok bool
		if unit, ok = lifetimeUnits[strings.ToLower(m[2])]; !ok {
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", value, m[2])
		}
	}
	return time.Duration(n * float64(unit)), nil
}

func parserFuncs() map[reflect.Type]env.ParserFunc {
	return map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(time.Duration(0)): func(v string) (any, error) {
			return ParseLifetime(v)
		},
	}
}
