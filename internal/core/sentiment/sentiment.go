// Package sentiment maps star ratings to sentiment class labels.
//
// Two binning policies exist and are kept as separate functions. BinThreeClass
// labels every rating as negative, neutral or positive. BinBinary labels a rating
// as negative or positive and expects neutral ratings to have been filtered out
// beforehand with FilterNeutral.
package sentiment

import (
	"errors"
	"fmt"
	"math"
)

// Rating bounds of the review datasets.
const (
	MinRating     = 1.0
	MaxRating     = 5.0
	NeutralRating = 3.0
)

var (
	// ErrRatingOutOfRange is returned by ValidateRating for NaN or values outside [MinRating, MaxRating].
	ErrRatingOutOfRange = errors.New("rating out of range")
	// ErrNeutralRating is returned when a neutral rating reaches the binary policy.
	ErrNeutralRating = errors.New("neutral rating not allowed in binary policy")
	// ErrUnknownPolicy is returned by ParsePolicy.
	ErrUnknownPolicy = errors.New("unknown binning policy")
)

// Label is a three-class sentiment label.
type Label int

const (
	Negative Label = iota
	Neutral
	Positive
)

// String returns the lower-case label name.
func (l Label) String() string {
	switch l {
	case Negative:
		return "negative"
	case Neutral:
		return "neutral"
	case Positive:
		return "positive"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// BinaryLabel is a two-class sentiment label.
type BinaryLabel int

const (
	BinaryNegative BinaryLabel = iota
	BinaryPositive
)

// String returns the lower-case label name.
func (l BinaryLabel) String() string {
	switch l {
	case BinaryNegative:
		return "negative"
	case BinaryPositive:
		return "positive"
	default:
		return fmt.Sprintf("binary_label(%d)", int(l))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l BinaryLabel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ValidateRating checks the precondition shared by both binning policies.
// The binners themselves never clamp or substitute values.
func ValidateRating(rating float64) error {
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: %v", ErrRatingOutOfRange, rating)
	}
	return nil
}

// BinThreeClass maps a rating to Negative (<= 2), Neutral (== 3) or Positive (anything else).
func BinThreeClass(rating float64) Label {
	switch {
	case rating <= 2:
		return Negative
	case rating == NeutralRating:
		return Neutral
	default:
		return Positive
	}
}

// IsNeutral reports whether a rating is dropped by neutral row filtering.
func IsNeutral(rating float64) bool {
	return rating == NeutralRating
}

// BinBinary maps a rating to BinaryPositive (>= 4) or BinaryNegative.
// Neutral ratings must be removed before calling it.
func BinBinary(rating float64) BinaryLabel {
	if rating >= 4 {
		return BinaryPositive
	}
	return BinaryNegative
}

// FilterNeutral returns the items whose rating is not neutral, keeping their order.
func FilterNeutral[T any](items []T, rating func(T) float64) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if IsNeutral(rating(item)) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// Policy names a binning policy.
type Policy string

const (
	PolicyThreeClass Policy = "three_class"
	PolicyBinary     Policy = "binary"
)

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyThreeClass, PolicyBinary:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// LabelNames returns the label names of a policy ordered by label value.
func (p Policy) LabelNames() []string {
	if p == PolicyBinary {
		return []string{BinaryNegative.String(), BinaryPositive.String()}
	}
	return []string{Negative.String(), Neutral.String(), Positive.String()}
}
