package projection

import (
	"testing"

	"github.com/iwvelando/population-forecast/internal/baseline"
)

func TestInterpolate(t *testing.T) {
	anchors := []int{2025, 2030}
	series := map[int]baseline.Snapshot{
		2025: {Male: []int{100, 200}, Female: []int{110, 210}},
		2030: {Male: []int{200, 100}, Female: []int{160, 260}},
	}

	t.Run("Idempotent at anchors", func(t *testing.T) {
		for _, anchor := range anchors {
			snap, err := Interpolate(anchors, series, anchor)
			if err != nil {
				t.Fatalf("Interpolate(%d) returned error: %v", anchor, err)
			}
			want := series[anchor]
			for i := range want.Male {
				if snap.Male[i] != want.Male[i] || snap.Female[i] != want.Female[i] {
					t.Errorf("anchor %d band %d: got male %d female %d, expected male %d female %d",
						anchor, i, snap.Male[i], snap.Female[i], want.Male[i], want.Female[i])
				}
			}
		}
	})

	t.Run("Linear between anchors", func(t *testing.T) {
		snap, err := Interpolate(anchors, series, 2026)
		if err != nil {
			t.Fatalf("Interpolate returned error: %v", err)
		}
		expectedMale := []int{120, 180}
		expectedFemale := []int{120, 220}
		for i := range expectedMale {
			if snap.Male[i] != expectedMale[i] {
				t.Errorf("male band %d = %d, expected %d", i, snap.Male[i], expectedMale[i])
			}
			if snap.Female[i] != expectedFemale[i] {
				t.Errorf("female band %d = %d, expected %d", i, snap.Female[i], expectedFemale[i])
			}
		}
	})

	t.Run("Out of range years error", func(t *testing.T) {
		for _, year := range []int{2024, 2031} {
			if _, err := Interpolate(anchors, series, year); err == nil {
				t.Errorf("Interpolate(%d) succeeded, expected error", year)
			}
		}
	})

	t.Run("No anchors errors", func(t *testing.T) {
		if _, err := Interpolate(nil, series, 2026); err == nil {
			t.Error("Interpolate with no anchors succeeded, expected error")
		}
	})

	t.Run("Anchor result is an independent copy", func(t *testing.T) {
		snap, err := Interpolate(anchors, series, 2025)
		if err != nil {
			t.Fatalf("Interpolate returned error: %v", err)
		}
		snap.Male[0] = -1
		if series[2025].Male[0] != 100 {
			t.Error("mutating the interpolated snapshot changed the anchor series")
		}
	})
}
