package diagram

import (
	"testing"
)

func box(id string, x, y, w, h float64) Node {
	return Node{ID: id, Type: KindGoal, Position: Position{X: x, Y: y}}.WithSize(w, h)
}

func TestResolveConnectionPointsHorizontal(t *testing.T) {
	r := ResolveConnectionPoints(box("s", 0, 0, 100, 50), box("t", 300, 0, 100, 50))
	if !r.Resolved() {
		t.Fatal("not resolved")
	}
	if r.SourcePos != SideRight || r.TargetPos != SideLeft {
		t.Errorf("sides = %s/%s, want right/left", r.SourcePos, r.TargetPos)
	}
	if r.SourcePoint.X != 100 || r.SourcePoint.Y != 25 {
		t.Errorf("SourcePoint = %+v, want {100 25}", *r.SourcePoint)
	}
	if r.TargetPoint.X != 300 || r.TargetPoint.Y != 25 {
		t.Errorf("TargetPoint = %+v, want {300 25}", *r.TargetPoint)
	}
}

func TestResolveConnectionPointsCardinal(t *testing.T) {
	src := box("s", 0, 0, 100, 100)
	tests := []struct {
		name     string
		target   Node
		from, to Side
	}{
		{"Right", box("t", 300, 0, 100, 100), SideRight, SideLeft},
		{"Below", box("t", 0, 300, 100, 100), SideBottom, SideTop},
		{"Left", box("t", -300, 0, 100, 100), SideLeft, SideRight},
		{"Above", box("t", 0, -300, 100, 100), SideTop, SideBottom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ResolveConnectionPoints(src, tt.target)
			if r.SourcePos != tt.from || r.TargetPos != tt.to {
				t.Errorf("sides = %s/%s, want %s/%s", r.SourcePos, r.TargetPos, tt.from, tt.to)
			}
		})
	}
}

func TestSectorSidesBoundaries(t *testing.T) {
	tests := []struct {
		angle    float64
		from, to Side
	}{
		{0, SideRight, SideLeft},
		{45, SideRight, SideLeft},
		{45.0001, SideBottom, SideTop},
		{90, SideBottom, SideTop},
		{135, SideBottom, SideTop},
		{135.0001, SideLeft, SideRight},
		{180, SideLeft, SideRight},
		{-135, SideLeft, SideRight},
		{-134.9999, SideTop, SideBottom},
		{-90, SideTop, SideBottom},
		{-45, SideTop, SideBottom},
		{-44.9999, SideRight, SideLeft},
	}
	for _, tt := range tests {
		from, to := sectorSides(tt.angle)
		if from != tt.from || to != tt.to {
			t.Errorf("sectorSides(%v) = %s/%s, want %s/%s", tt.angle, from, to, tt.from, tt.to)
		}
	}
}

func TestResolveConnectionPointsSwap(t *testing.T) {
	a := box("a", 0, 0, 100, 60)
	others := []Node{
		box("b", 250, 40, 80, 40),
		box("c", -30, 200, 120, 60),
		box("d", -400, -10, 100, 60),
		box("e", 20, -300, 60, 60),
	}
	for _, b := range others {
		fwd := ResolveConnectionPoints(a, b)
		rev := ResolveConnectionPoints(b, a)
		if rev.SourcePos != fwd.TargetPos || rev.TargetPos != fwd.SourcePos {
			t.Errorf("%s: forward %s/%s, reverse %s/%s", b.ID, fwd.SourcePos, fwd.TargetPos, rev.SourcePos, rev.TargetPos)
		}
		if fwd.SourcePos.Opposite() != fwd.TargetPos {
			t.Errorf("%s: %s is not opposite %s", b.ID, fwd.SourcePos, fwd.TargetPos)
		}
	}
}

func TestResolveConnectionPointsUnmeasured(t *testing.T) {
	measured := box("m", 0, 0, 100, 50)
	unmeasured := Node{ID: "u", Type: KindGoal, Position: Position{X: 300}}
	zero := Node{ID: "z", Type: KindGoal}.WithSize(0, 50)

	for _, pair := range [][2]Node{{measured, unmeasured}, {unmeasured, measured}, {measured, zero}} {
		r := ResolveConnectionPoints(pair[0], pair[1])
		if r.Resolved() {
			t.Errorf("%s→%s: resolved, want nil points", pair[0].ID, pair[1].ID)
		}
		if r.SourcePos != SideBottom || r.TargetPos != SideTop {
			t.Errorf("%s→%s: sides = %s/%s, want bottom/top", pair[0].ID, pair[1].ID, r.SourcePos, r.TargetPos)
		}
	}
}

func TestConnectionPoints(t *testing.T) {
	a, ok := ConnectionPoints(box("n", 10, 20, 100, 40))
	if !ok {
		t.Fatal("not ok")
	}
	want := Anchors{
		Top:    Point{60, 20},
		Right:  Point{110, 40},
		Bottom: Point{60, 60},
		Left:   Point{10, 40},
		Center: Point{60, 40},
	}
	if a != want {
		t.Errorf("anchors = %+v, want %+v", a, want)
	}
	if _, ok := ConnectionPoints(Node{ID: "u"}); ok {
		t.Error("unmeasured node has anchors")
	}
}

func TestEdgeParamsMeasured(t *testing.T) {
	p := EdgeParams(box("s", 0, 0, 100, 50), box("t", 300, 0, 100, 50))
	want := Params{SX: 100, SY: 25, TX: 300, TY: 25, SourcePos: SideRight, TargetPos: SideLeft}
	if p != want {
		t.Errorf("EdgeParams = %+v, want %+v", p, want)
	}
}

func TestEdgeParamsFallback(t *testing.T) {
	src := Node{ID: "s", Position: Position{X: 0, Y: 0}}
	tests := []struct {
		name   string
		target Node
		want   Params
	}{
		{
			name:   "Horizontal",
			target: Node{ID: "t", Position: Position{X: 400, Y: 0}},
			want:   Params{SX: 150, SY: 40, TX: 400, TY: 40, SourcePos: SideRight, TargetPos: SideLeft},
		},
		{
			name:   "Vertical",
			target: Node{ID: "t", Position: Position{X: 0, Y: 300}},
			want:   Params{SX: 75, SY: 80, TX: 75, TY: 300, SourcePos: SideBottom, TargetPos: SideTop},
		},
		{
			name:   "DiagonalTiePrefersHorizontal",
			target: Node{ID: "t", Position: Position{X: -200, Y: -200}},
			want:   Params{SX: 0, SY: 40, TX: -50, TY: -160, SourcePos: SideLeft, TargetPos: SideRight},
		},
		{
			name:   "Above",
			target: Node{ID: "t", Position: Position{X: 10, Y: -300}},
			want:   Params{SX: 75, SY: 0, TX: 85, TY: -220, SourcePos: SideTop, TargetPos: SideBottom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EdgeParams(src, tt.target); got != tt.want {
				t.Errorf("EdgeParams = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSideOpposite(t *testing.T) {
	for _, s := range []Side{SideTop, SideRight, SideBottom, SideLeft} {
		if s.Opposite().Opposite() != s {
			t.Errorf("%s.Opposite().Opposite() = %s", s, s.Opposite().Opposite())
		}
	}
}
