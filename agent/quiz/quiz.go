// Package quiz holds the scoring rules of the 5-question skin test.
// The model applies them conversationally; this package is the
// deterministic reference the engine and its tests rely on.
package quiz

import (
	"errors"
	"fmt"
	"strings"

	contractx "github.com/dermaluz/concierge/agent/contract"
)

const QuestionCount = 5

// Points per answer choice, identical for all five questions.
const (
	PointsChoiceA = 1
	PointsChoiceB = 2
	PointsChoiceC = 4
	PointsChoiceD = 6
)

const (
	minTotal = QuestionCount * PointsChoiceA
	maxTotal = QuestionCount * PointsChoiceD
)

var (
	ErrUnknownChoice   = errors.New("unknown answer choice")
	ErrUnknownProfile  = errors.New("unknown skin profile label")
	ErrTotalOutOfRange = errors.New("quiz total out of range")
)

// PointsForChoice maps an answer letter to its score.
func PointsForChoice(choice string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "a":
		return PointsChoiceA, nil
	case "b":
		return PointsChoiceB, nil
	case "c":
		return PointsChoiceC, nil
	case "d":
		return PointsChoiceD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownChoice, choice)
	}
}

// ProfileForTotal maps a quiz total to the skin profile:
// 5-14 seca, 15-20 normal, 21-30 grasa.
func ProfileForTotal(total int) (contractx.SkinProfile, error) {
	if total < minTotal || total > maxTotal {
		return "", fmt.Errorf("%w: %d", ErrTotalOutOfRange, total)
	}
	switch {
	case total <= 14:
		return contractx.SkinDry, nil
	case total <= 20:
		return contractx.SkinNormal, nil
	default:
		return contractx.SkinOily, nil
	}
}

// ParseProfile validates a classification label against the closed set.
func ParseProfile(label string) (contractx.SkinProfile, error) {
	trimmed := strings.TrimSpace(label)
	for _, p := range []contractx.SkinProfile{contractx.SkinDry, contractx.SkinNormal, contractx.SkinOily} {
		if strings.EqualFold(trimmed, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProfile, label)
}
