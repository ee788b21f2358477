package quiz

import (
	"errors"
	"testing"

	contractx "github.com/dermaluz/concierge/agent/contract"
)

func TestPointsForChoice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		choice string
		want   int
	}{
		{"a", 1},
		{"b", 2},
		{"c", 4},
		{"d", 6},
		{" A ", 1},
		{"D", 6},
	}
	for _, tc := range cases {
		got, err := PointsForChoice(tc.choice)
		if err != nil {
			t.Fatalf("PointsForChoice(%q) error = %v", tc.choice, err)
		}
		if got != tc.want {
			t.Fatalf("PointsForChoice(%q) = %d, want %d", tc.choice, got, tc.want)
		}
	}

	if _, err := PointsForChoice("e"); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("expected ErrUnknownChoice, got %v", err)
	}
	if _, err := PointsForChoice(""); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("expected ErrUnknownChoice, got %v", err)
	}
}

func TestProfileForTotalBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total int
		want  contractx.SkinProfile
	}{
		{5, contractx.SkinDry},
		{14, contractx.SkinDry},
		{15, contractx.SkinNormal},
		{20, contractx.SkinNormal},
		{21, contractx.SkinOily},
		{30, contractx.SkinOily},
	}
	for _, tc := range cases {
		got, err := ProfileForTotal(tc.total)
		if err != nil {
			t.Fatalf("ProfileForTotal(%d) error = %v", tc.total, err)
		}
		if got != tc.want {
			t.Fatalf("ProfileForTotal(%d) = %s, want %s", tc.total, got, tc.want)
		}
	}
}

func TestProfileForTotalOutOfRange(t *testing.T) {
	t.Parallel()

	for _, total := range []int{4, 0, -1, 31, 100} {
		if _, err := ProfileForTotal(total); !errors.Is(err, ErrTotalOutOfRange) {
			t.Fatalf("ProfileForTotal(%d) error = %v, want ErrTotalOutOfRange", total, err)
		}
	}
}

func TestAllSameChoiceTotals(t *testing.T) {
	t.Parallel()

	// All-b answers total 10 and classify as dry skin.
	total := 0
	for i := 0; i < QuestionCount; i++ {
		pts, err := PointsForChoice("b")
		if err != nil {
			t.Fatalf("PointsForChoice(b) error = %v", err)
		}
		total += pts
	}
	if total != 10 {
		t.Fatalf("all-b total = %d, want 10", total)
	}
	profile, err := ProfileForTotal(total)
	if err != nil {
		t.Fatalf("ProfileForTotal(%d) error = %v", total, err)
	}
	if profile != contractx.SkinDry {
		t.Fatalf("profile = %s, want %s", profile, contractx.SkinDry)
	}
}

func TestParseProfile(t *testing.T) {
	t.Parallel()

	got, err := ParseProfile("  piel GRASA ")
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}
	if got != contractx.SkinOily {
		t.Fatalf("ParseProfile() = %s, want %s", got, contractx.SkinOily)
	}

	if _, err := ParseProfile("piel mixta"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	if _, err := ParseProfile(""); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}
