package editor

import (
	"testing"
)

func TestHorizontalResizeQuantization(t *testing.T) {
	cfg := ResizeConfig{PixelsPerUnit: 60}

	tests := []struct {
		name      string
		startSpan int
		dx        float64
		want      int
	}{
		{"no movement", 6, 0, 6},
		{"one unit right", 6, 60, 7},
		{"rounds to nearest", 6, 95, 8},
		{"under half unit ignored", 6, 25, 6},
		{"one unit left", 6, -60, 5},
		{"clamps at twelve", 10, 600, 12},
		{"clamps at one", 3, -600, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewResizeGesture(cfg, "s", AxisHorizontal, 100, 100, tt.startSpan, 0, nil)
			v := g.End(100+tt.dx, 100)
			if v.Span != tt.want {
				t.Errorf("End span = %d, want %d", v.Span, tt.want)
			}
		})
	}
}

func TestVerticalResizeHalvesDelta(t *testing.T) {
	cfg := ResizeConfig{MinHeight: 40}

	g := NewResizeGesture(cfg, "s", AxisVertical, 0, 100, 0, 80, nil)

	if v := g.End(0, 180); v.Height != 120 {
		t.Errorf("height = %f, want 120 (delta 80 halved)", v.Height)
	}

	// Shrinking below the minimum clamps, never rejects.
	if v := g.End(0, -900); v.Height != 40 {
		t.Errorf("height = %f, want min 40", v.Height)
	}
}

func TestResizePreviewCallback(t *testing.T) {
	var previews []int
	g := NewResizeGesture(ResizeConfig{PixelsPerUnit: 10}, "s", AxisHorizontal, 0, 0, 4,
		0, func(v ResizeValue) { previews = append(previews, v.Span) })

	g.Update(10, 0)
	g.Update(20, 0)
	g.Update(35, 0)

	want := []int{5, 6, 8}
	if len(previews) != len(want) {
		t.Fatalf("previews = %v, want %v", previews, want)
	}
	for i := range want {
		if previews[i] != want[i] {
			t.Errorf("preview %d = %d, want %d", i, previews[i], want[i])
		}
	}

	// Commit comes from total displacement, not the last preview.
	if v := g.End(42, 0); v.Span != 8 {
		t.Errorf("commit span = %d, want 8", v.Span)
	}
}
