package renderer

import (
	"math"
	"testing"
)

func TestScaleAboutKeepsPivot(t *testing.T) {
	tr := Identity.ScaleAbout(0.5, 10, 20)
	x, y := tr.Apply(10, 20)
	if x != 10 || y != 20 {
		t.Fatalf("pivot moved to (%g,%g)", x, y)
	}
	x, y = tr.Apply(30, 20)
	if x != 20 || y != 20 {
		t.Fatalf("expected (20,20), got (%g,%g)", x, y)
	}
}

func TestTransformStackComposes(t *testing.T) {
	s := NewTransformStack()
	base := s.Save()
	s.Scale(2, 0, 0)
	inner := s.Save()
	s.Scale(0.5, 4, 4)

	x, y := s.Current().Apply(4, 4)
	if math.Abs(x-8) > 1e-12 || math.Abs(y-8) > 1e-12 {
		t.Fatalf("nested pivot should map through the outer scale, got (%g,%g)", x, y)
	}
	if got := s.Current().Scale; got != 1 {
		t.Fatalf("expected composed scale 1, got %g", got)
	}

	s.RestoreToCount(inner)
	if s.Current().Scale != 2 || s.Depth() != 1 {
		t.Fatalf("restore to inner failed: %+v depth=%d", s.Current(), s.Depth())
	}
	s.RestoreToCount(base)
	if s.Current() != Identity || s.Depth() != 0 {
		t.Fatalf("restore to base failed: %+v depth=%d", s.Current(), s.Depth())
	}
	// 多余的恢复是安全的
	s.RestoreToCount(-3)
	if s.Depth() != 0 {
		t.Fatalf("unexpected depth %d", s.Depth())
	}
}
