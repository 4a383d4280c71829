package chapters

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidRange = errors.New("invalid chapter range")

const (
	// maxSpan bounds a single interval so a typo like "1-1000000" fails early.
	maxSpan = 10000

	// maxChapter is the largest whole number an ID holds exactly.
	maxChapter = 1 << 53
)

var reWhole = regexp.MustCompile(`^\d+$`)

// ParseRange turns an expression like "10-20,25,30.5" into an ascending list of
// unique chapter IDs. Interval bounds must be whole numbers.
func ParseRange(expr string) ([]ID, error) {
	tokens := tokenize(expr)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty range", ErrInvalidRange)
	}

	set := make(map[ID]struct{})
	last := len(tokens) - 1

	for i := 0; i <= last; {
		if i == last {
			id, err := ParseID(tokens[i])
			if err != nil {
				return nil, err
			}
			set[id] = struct{}{}
			break
		}

		// tokens alternate value, delimiter, value, ...
		if tokens[i+1] == "-" {
			if i+3 <= last && tokens[i+3] != "," {
				return nil, fmt.Errorf("%w: chained interval in %q", ErrInvalidRange, expr)
			}

			lo, hi, err := parseInterval(tokens[i], tokens[i+2])
			if err != nil {
				return nil, err
			}
			for k := 0; k <= hi-lo; k++ {
				set[ID(lo+k)] = struct{}{}
			}
			i += 4
			continue
		}

		id, err := ParseID(tokens[i])
		if err != nil {
			return nil, err
		}
		set[id] = struct{}{}
		i += 2
	}

	out := make([]ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

func parseInterval(loTok, hiTok string) (int, int, error) {
	lo, ok1 := parseWhole(loTok)
	hi, ok2 := parseWhole(hiTok)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("%w: interval %s-%s needs whole chapter numbers", ErrInvalidRange, loTok, hiTok)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%w: interval %d-%d is reversed", ErrInvalidRange, lo, hi)
	}
	if hi-lo+1 > maxSpan {
		return 0, 0, fmt.Errorf("%w: interval %d-%d spans more than %d chapters", ErrInvalidRange, lo, hi, maxSpan)
	}

	return lo, hi, nil
}

// parseWhole accepts the same digits ParseID does, without a fraction, up
// to maxChapter.
func parseWhole(tok string) (int, bool) {
	tok = strings.TrimSpace(tok)
	if !reWhole.MatchString(tok) {
		return 0, false
	}

	n, err := strconv.Atoi(tok)
	if err != nil || n > maxChapter {
		return 0, false
	}
	return n, true
}

// tokenize splits on '-' and ',' and keeps the delimiters as their own tokens.
func tokenize(expr string) []string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}

	var (
		out []string
		cur strings.Builder
	)
	for _, r := range expr {
		if r == '-' || r == ',' {
			out = append(out, strings.TrimSpace(cur.String()), string(r))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	out = append(out, strings.TrimSpace(cur.String()))

	return out
}

// FormatRange is the inverse of ParseRange for display: consecutive whole
// chapters collapse into intervals, e.g. [3 4 5 7 7.5] -> "3-5,7,7.5".
func FormatRange(ids []ID) string {
	if len(ids) == 0 {
		return ""
	}

	sorted := append([]ID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var parts []string
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j].IsWhole() && sorted[j+1] == sorted[j]+1 {
			j++
		}

		if j > i {
			parts = append(parts, sorted[i].String()+"-"+sorted[j].String())
		} else {
			parts = append(parts, sorted[i].String())
		}
		i = j + 1
	}

	return strings.Join(parts, ",")
}
