package domain

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Year identifies one yearly dataset, e.g. 1990.
type Year int

func (y Year) String() string { return strconv.Itoa(int(y)) }

// YearSet is the set of years a source (portal dropdown or local files) reports as present.
type YearSet map[Year]struct{}

// NewYearSet builds a set from the given years. Duplicates collapse.
func NewYearSet(years ...Year) YearSet {
	s := make(YearSet, len(years))
	for _, y := range years {
		s[y] = struct{}{}
	}
	return s
}

// Contains reports whether y is a member of the set.
func (s YearSet) Contains(y Year) bool {
	_, ok := s[y]
	return ok
}

// Sorted returns the members in ascending order.
func (s YearSet) Sorted() []Year {
	years := lo.Keys(s)
	slices.Sort(years)
	return years
}

// Min returns the smallest member. ok is false for an empty set.
func (s YearSet) Min() (Year, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return slices.Min(lo.Keys(s)), true
}

// Max returns the largest member. ok is false for an empty set.
func (s YearSet) Max() (Year, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return slices.Max(lo.Keys(s)), true
}

// YearRange is an optional lower and upper bound. A nil bound means "no bound on that side".
type YearRange struct {
	From *Year
	To   *Year
}

// Between returns a range with both bounds set.
func Between(from, to Year) YearRange { return YearRange{From: &from, To: &to} }

// Since returns a range with only a lower bound.
func Since(from Year) YearRange { return YearRange{From: &from} }

// Until returns a range with only an upper bound.
func Until(to Year) YearRange { return YearRange{To: &to} }

// Resolve computes the sorted list of years to act on. Bounds are validated first,
// then the selection is computed, then checked for emptiness.
func Resolve(available YearSet, r YearRange) ([]Year, error) {
	if err := validateBounds(available, r); err != nil {
		return nil, err
	}

	selected := lo.Filter(available.Sorted(), func(y Year, _ int) bool {
		if r.From != nil && y < *r.From {
			return false
		}
		if r.To != nil && y > *r.To {
			return false
		}
		return true
	})

	if len(selected) == 0 {
		return nil, newRangeError(ErrEmptySelection, available, r)
	}
	return selected, nil
}

func validateBounds(available YearSet, r YearRange) error {
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return newRangeError(ErrRangeInverted, available, r)
	}
	if r.From == nil && r.To == nil {
		return nil
	}

	lowest, ok := available.Min()
	if !ok {
		// Nothing to bound against; the selection phase reports the empty result.
		return nil
	}
	highest, _ := available.Max()

	switch {
	case r.From != nil && r.To != nil:
		if *r.From < lowest || *r.To > highest {
			return newRangeError(ErrOutOfBounds, available, r)
		}
	case r.From != nil:
		if *r.From < lowest || *r.From > highest {
			return newRangeError(ErrOutOfBounds, available, r)
		}
	default:
		if *r.To < lowest || *r.To > highest {
			return newRangeError(ErrOutOfBounds, available, r)
		}
	}
	return nil
}

// RequirePresent checks that every explicitly requested bound is an exact member of
// available. It is used where the set comes from files already on disk.
func RequirePresent(available YearSet, r YearRange) error {
	for _, bound := range []*Year{r.From, r.To} {
		if bound == nil || available.Contains(*bound) {
			continue
		}
		e := newRangeError(ErrUnknownYear, available, r)
		e.Missing = *bound
		return e
	}
	return nil
}

// JoinYears formats years as "2019, 2020".
func JoinYears(years []Year) string {
	return strings.Join(lo.Map(years, func(y Year, _ int) string { return y.String() }), ", ")
}
