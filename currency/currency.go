package currency

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Amount is integer counting lowest currency unit, e.g. €1.20 = 120
type Amount uint32

func (self Amount) Format100I() string {
	return fmt.Sprintf("%d.%02d", self/100, self%100)
}

// Parse converts a price string with up to two decimal places
// into lowest currency units. "3.2" = "3.20" = 320.
// Float arithmetic is deliberately avoided: totals must be exact
// over any number of additions.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NotValidf("price=empty")
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 2 {
		return 0, errors.NotValidf("price=%s more than 2 decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseUint(whole, 10, 32)
	if err != nil {
		return 0, errors.NotValidf("price=%s", s)
	}
	f := uint64(0)
	if frac != "00" {
		if f, err = strconv.ParseUint(frac, 10, 32); err != nil {
			return 0, errors.NotValidf("price=%s", s)
		}
	}
	total := w*100 + f
	if total > uint64(^Amount(0)) {
		return 0, errors.NotValidf("price=%s overflow", s)
	}
	return Amount(total), nil
}

func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}
