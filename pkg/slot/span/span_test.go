package span

import (
	"encoding/json"
	"testing"
)

func TestResolveEncodings(t *testing.T) {
	// The same semantic value (6 on desktop) in all four encodings must
	// normalize to the same integer.
	tests := []struct {
		name string
		raw  any
	}{
		{"bare number", float64(6)},
		{"viewport number", map[string]any{"desktop": float64(6)}},
		{"viewport class string", map[string]any{"desktop": "col-span-6"}},
		{"legacy nested", map[string]any{"desktop": map[string]any{"desktop": float64(6), "mobile": float64(12)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromRaw(tt.raw)
			if got := s.Resolve(ViewportDesktop); got != 6 {
				t.Errorf("Resolve(desktop) = %d, want 6", got)
			}
		})
	}
}

func TestResolveFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		vp   Viewport
		want int
	}{
		{"missing viewport falls back to desktop", map[string]any{"desktop": float64(4)}, ViewportMobile, 4},
		{"desktop beats tablet", map[string]any{"desktop": float64(4), "tablet": float64(8)}, ViewportMobile, 4},
		{"tablet when no desktop", map[string]any{"tablet": float64(8), "mobile": float64(2)}, ViewportDesktop, 8},
		{"nested prefers desktop", map[string]any{"mobile": map[string]any{"mobile": float64(3), "desktop": float64(9)}}, ViewportMobile, 9},
		{"empty map", map[string]any{}, ViewportDesktop, Full},
		{"zero value span", nil, ViewportDesktop, Full},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromRaw(tt.raw).Resolve(tt.vp); got != tt.want {
				t.Errorf("Resolve(%s) = %d, want %d", tt.vp, got, tt.want)
			}
		})
	}
}

func TestResolveMalformed(t *testing.T) {
	// Malformed values never fail; they resolve to full width.
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"garbage string", "wide", Full},
		{"boolean", true, Full},
		{"negative", float64(-3), Full},
		{"zero", float64(0), Full},
		{"too large clamps", float64(40), Columns},
		{"class without digits", map[string]any{"desktop": "full-width"}, Full},
		{"class with digits", map[string]any{"tablet": "w-3"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromRaw(tt.raw).Resolve(ViewportTablet); got != tt.want {
				t.Errorf("Resolve = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	// Round-tripping must preserve the encoded form, not the normalized
	// integer, so legacy documents survive a load/save cycle unchanged.
	inputs := []string{
		`6`,
		`{"desktop":6,"mobile":12}`,
		`{"desktop":"col-span-6"}`,
		`{"desktop":{"mobile":4,"desktop":6}}`,
	}

	for _, in := range inputs {
		var s Span
		if err := json.Unmarshal([]byte(in), &s); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		out, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		// Compare as decoded values to ignore key ordering.
		var want, got any
		if err := json.Unmarshal([]byte(in), &want); err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(out, &got); err != nil {
			t.Fatal(err)
		}
		if !deepEqual(want, got) {
			t.Errorf("round trip changed %s into %s", in, out)
		}
	}
}

func TestWithPreservesOtherViewports(t *testing.T) {
	s := Of(6)
	updated := s.With(ViewportDesktop, 4)

	if got := updated.Resolve(ViewportDesktop); got != 4 {
		t.Errorf("desktop = %d, want 4", got)
	}
	// Other viewports keep their previously effective value.
	if got := updated.Resolve(ViewportMobile); got != 6 {
		t.Errorf("mobile = %d, want 6", got)
	}
	if got := updated.Resolve(ViewportTablet); got != 6 {
		t.Errorf("tablet = %d, want 6", got)
	}
	// The source span is untouched.
	if got := s.Resolve(ViewportDesktop); got != 6 {
		t.Errorf("original mutated: desktop = %d, want 6", got)
	}
}

func TestWithBounds(t *testing.T) {
	s := Of(6)
	if got := s.With(ViewportMobile, 0).Resolve(ViewportMobile); got != 1 {
		t.Errorf("With(0) = %d, want 1", got)
	}
	if got := s.With(ViewportMobile, 99).Resolve(ViewportMobile); got != Columns {
		t.Errorf("With(99) = %d, want %d", got, Columns)
	}
}

func deepEqual(a, b any) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}
