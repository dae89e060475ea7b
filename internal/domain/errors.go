package domain

import (
	"errors"
	"fmt"
)

// Resolver failure kinds. Match with errors.Is.
var (
	ErrRangeInverted  = errors.New("from year cannot be greater than to year")
	ErrOutOfBounds    = errors.New("year range is out of bounds")
	ErrEmptySelection = errors.New("no available years match the criteria")
	ErrUnknownYear    = errors.New("year not found in the data files")
)

// RangeError describes why a YearRange could not be resolved against a YearSet.
type RangeError struct {
	Kind    error
	Range   YearRange
	Min     Year
	Max     Year
	Missing Year // set for ErrUnknownYear
	empty   bool
}

func newRangeError(kind error, available YearSet, r YearRange) *RangeError {
	e := &RangeError{Kind: kind, Range: r, empty: len(available) == 0}
	e.Min, _ = available.Min()
	e.Max, _ = available.Max()
	return e
}

func (e *RangeError) Error() string {
	switch e.Kind {
	case ErrRangeInverted:
		return fmt.Sprintf("%v (%s > %s)", e.Kind, *e.Range.From, *e.Range.To)
	case ErrOutOfBounds:
		return fmt.Sprintf("%v: requested %s, available %s-%s", e.Kind, e.describeRange(), e.Min, e.Max)
	case ErrUnknownYear:
		return fmt.Sprintf("year %s not found in the data files", e.Missing)
	case ErrEmptySelection:
		if e.empty {
			return fmt.Sprintf("%v: no years available", e.Kind)
		}
		return fmt.Sprintf("%v: requested %s", e.Kind, e.describeRange())
	default:
		return e.Kind.Error()
	}
}

func (e *RangeError) Unwrap() error { return e.Kind }

func (e *RangeError) describeRange() string {
	from, to := "*", "*"
	if e.Range.From != nil {
		from = e.Range.From.String()
	}
	if e.Range.To != nil {
		to = e.Range.To.String()
	}
	return from + ".." + to
}

// IsUsageError reports whether err is a resolver failure that should be reported to the
// user with a usage hint rather than treated as a runtime fault.
func IsUsageError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}
