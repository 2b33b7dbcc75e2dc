package export

import (
	"math"
	"strings"
	"testing"
)

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{0, 1, 4}, 100, 50, "#00ff00")

	if !strings.HasPrefix(svg, "<?xml") {
		t.Fatalf("expected xml header, got %q", svg)
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("expected stroke color in output")
	}
	if !strings.Contains(svg, `width="100" height="50"`) {
		t.Error("expected dimensions in output")
	}
	// 10% padding puts the first point at x=100*0.2/2.4
	if !strings.Contains(svg, `d="M8.3,45.8 L50.0,35.4 L91.7,4.2"`) {
		t.Errorf("unexpected path in %s", svg)
	}
}

func TestSeriesToSVGBreaksOnNaN(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 2, math.NaN(), 2, 1}

	svg := SeriesToSVG(xs, ys, 100, 100, "red")
	if got := strings.Count(svg, "M"); got != 2 {
		t.Errorf("expected 2 segments, got %d in %s", got, svg)
	}
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line commands, got %d", got)
	}
}

func TestSeriesToSVGTooFewPoints(t *testing.T) {
	if svg := SeriesToSVG([]float64{1}, []float64{1}, 10, 10, "red"); svg != "" {
		t.Errorf("expected empty output for one point, got %q", svg)
	}
	if svg := SeriesToSVG([]float64{1, 2}, []float64{math.NaN(), math.Inf(1)}, 10, 10, "red"); svg != "" {
		t.Errorf("expected empty output without finite points, got %q", svg)
	}
}

func TestSeriesToSVGFlatLine(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1}, []float64{3, 3}, 10, 10, "red")
	if svg == "" || strings.Contains(svg, "NaN") {
		t.Errorf("expected a drawable flat line, got %q", svg)
	}
}
