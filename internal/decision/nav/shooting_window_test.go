package nav

import (
	"testing"

	"crabe/internal/vmath"
)

func TestShootingWindowsOpenWhenNoObstacle(t *testing.T) {
	goalLine := vmath.Line{Start: vmath.Vec2{X: 4.5, Y: -0.5}, End: vmath.Vec2{X: 4.5, Y: 0.5}}
	windows := ShootingWindows(vmath.Vec2{X: 0, Y: 0}, goalLine, nil)
	best, ok := WidestWindow(windows)
	if !ok {
		t.Fatal("expected an open window")
	}
	if best.Width() < 0.99 {
		t.Fatalf("expected the full goal mouth open, got width %v", best.Width())
	}
}

func TestShootingWindowsNarrowsWithObstacle(t *testing.T) {
	goalLine := vmath.Line{Start: vmath.Vec2{X: 4.5, Y: -0.5}, End: vmath.Vec2{X: 4.5, Y: 0.5}}
	obstacle := []vmath.Circle{{Center: vmath.Vec2{X: 2, Y: 0}, Radius: 0.09}}
	windows := ShootingWindows(vmath.Vec2{X: 0, Y: 0}, goalLine, obstacle)
	best, ok := WidestWindow(windows)
	if !ok {
		t.Fatal("expected at least one remaining window")
	}
	if best.Width() >= 1.0 {
		t.Fatalf("expected the obstacle to narrow the widest window, got %v", best.Width())
	}
}
