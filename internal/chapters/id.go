package chapters

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ID is a chapter number. Side chapters carry a fractional part (e.g. 1045.5).
type ID float64

var reNumber = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// ParseID parses a single chapter number such as "12" or "12.5".
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if !reNumber.MatchString(s) {
		return 0, fmt.Errorf("%w: %q is not a chapter number", ErrInvalidRange, s)
	}

	if !strings.Contains(s, ".") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
		}
		return ID(n), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
	}

	return ID(f), nil
}

func (id ID) String() string {
	return strconv.FormatFloat(float64(id), 'f', -1, 64)
}

// IsWhole reports whether the chapter has no fractional part.
func (id ID) IsWhole() bool {
	return math.Trunc(float64(id)) == float64(id)
}

// Next returns the first whole chapter after id: 12 -> 13, 12.5 -> 13.
func (id ID) Next() ID {
	return ID(math.Floor(float64(id)) + 1)
}

// Pad prefixes a single zero to values below ten: 5 -> "05", 5.5 -> "05.5".
func Pad(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v < 10 {
		return "0" + s
	}
	return s
}
