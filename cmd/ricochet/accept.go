package main

import (
	"fmt"
	"strconv"
	"strings"
)

// acceptRange is one parsed chunk of a --accept spec: either a single
// code or an inclusive range written "lo..=hi"
type acceptRange struct {
	lo, hi int
}

func (r acceptRange) contains(code int) bool { return code >= r.lo && code <= r.hi }

// parseAcceptSpec parses a comma-separated list of status codes and
// inclusive ranges (e.g. "200..=204,429") into an acceptance predicate.
// An empty spec means "use the website checker's built-in default".
func parseAcceptSpec(spec string) (func(code int) bool, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var ranges []acceptRange
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "..="); ok {
			loN, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid range start in %q", part)
			}
			hiN, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid range end in %q", part)
			}
			ranges = append(ranges, acceptRange{lo: loN, hi: hiN})
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid status code %q", part)
		}
		ranges = append(ranges, acceptRange{lo: n, hi: n})
	}

	return func(code int) bool {
		for _, r := range ranges {
			if r.contains(code) {
				return true
			}
		}
		return false
	}, nil
}
