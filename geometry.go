package diagram

import "math"

// Side is the edge of a node's bounding box an edge attaches to.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideRight:
		return SideLeft
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	}
	return s
}

// Point is a location in flow coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Anchors are the midpoints of a node's four sides and its center.
type Anchors struct {
	Top, Right, Bottom, Left, Center Point
}

// At returns the anchor on side s.
func (a Anchors) At(s Side) Point {
	switch s {
	case SideTop:
		return a.Top
	case SideRight:
		return a.Right
	case SideBottom:
		return a.Bottom
	case SideLeft:
		return a.Left
	}
	return a.Center
}

// ConnectionPoints computes the anchors of a measured node.
// ok is false when the node has no known size.
func ConnectionPoints(n Node) (Anchors, bool) {
	w, h, ok := n.Size()
	if !ok {
		return Anchors{}, false
	}
	return anchorsOf(n.Position, w, h), true
}

func anchorsOf(p Position, w, h float64) Anchors {
	cx, cy := p.X+w/2, p.Y+h/2
	return Anchors{
		Top:    Point{cx, p.Y},
		Right:  Point{p.X + w, cy},
		Bottom: Point{cx, p.Y + h},
		Left:   Point{p.X, cy},
		Center: Point{cx, cy},
	}
}

// Resolution is where a floating edge leaves its source and enters its
// target. The points are nil when either node is unmeasured; the sides then
// default to bottom→top.
type Resolution struct {
	SourcePoint *Point `json:"sourcePoint"`
	TargetPoint *Point `json:"targetPoint"`
	SourcePos   Side   `json:"sourcePos"`
	TargetPos   Side   `json:"targetPos"`
}

// Resolved reports whether both points were computed.
func (r Resolution) Resolved() bool {
	return r.SourcePoint != nil && r.TargetPoint != nil
}

// ResolveConnectionPoints picks the attachment sides for an edge between two
// measured nodes from the angle between their centers, in four 90° sectors
// centered on the cardinal directions.
func ResolveConnectionPoints(source, target Node) Resolution {
	sa, sok := ConnectionPoints(source)
	ta, tok := ConnectionPoints(target)
	if !sok || !tok {
		return Resolution{SourcePos: SideBottom, TargetPos: SideTop}
	}

	dx := ta.Center.X - sa.Center.X
	dy := ta.Center.Y - sa.Center.Y
	from, to := sectorSides(math.Atan2(dy, dx) * 180 / math.Pi)

	sp, tp := sa.At(from), ta.At(to)
	return Resolution{SourcePoint: &sp, TargetPoint: &tp, SourcePos: from, TargetPos: to}
}

// sectorSides buckets an angle in degrees, (-180, 180], into source and target sides.
func sectorSides(angle float64) (Side, Side) {
	switch {
	case angle > -45 && angle <= 45:
		return SideRight, SideLeft
	case angle > 45 && angle <= 135:
		return SideBottom, SideTop
	case angle > 135 || angle <= -135:
		return SideLeft, SideRight
	default:
		return SideTop, SideBottom
	}
}

// dominantSides is the two-way split used when only the dominant axis matters:
// vertical when |dy| > |dx|, horizontal otherwise.
func dominantSides(dx, dy float64) (Side, Side) {
	if math.Abs(dy) > math.Abs(dx) {
		if dy > 0 {
			return SideBottom, SideTop
		}
		return SideTop, SideBottom
	}
	if dx > 0 {
		return SideRight, SideLeft
	}
	return SideLeft, SideRight
}

// Default size assumed for nodes that have not been measured.
const (
	DefaultNodeWidth  = 150
	DefaultNodeHeight = 80
)

// Params are the end points and sides of a drawn edge.
type Params struct {
	SX        float64 `json:"sx"`
	SY        float64 `json:"sy"`
	TX        float64 `json:"tx"`
	TY        float64 `json:"ty"`
	SourcePos Side    `json:"sourcePos"`
	TargetPos Side    `json:"targetPos"`
}

// EdgeParams returns the end points for an edge between two nodes. Measured
// nodes use ResolveConnectionPoints; otherwise the default size is assumed and
// the sides follow the dominant axis between the centers.
func EdgeParams(source, target Node) Params {
	if r := ResolveConnectionPoints(source, target); r.Resolved() {
		return Params{
			SX: r.SourcePoint.X, SY: r.SourcePoint.Y,
			TX: r.TargetPoint.X, TY: r.TargetPoint.Y,
			SourcePos: r.SourcePos, TargetPos: r.TargetPos,
		}
	}

	sa := anchorsOf(source.Position, sizeOr(source.Width, DefaultNodeWidth), sizeOr(source.Height, DefaultNodeHeight))
	ta := anchorsOf(target.Position, sizeOr(target.Width, DefaultNodeWidth), sizeOr(target.Height, DefaultNodeHeight))
	from, to := dominantSides(ta.Center.X-sa.Center.X, ta.Center.Y-sa.Center.Y)
	sp, tp := sa.At(from), ta.At(to)
	return Params{SX: sp.X, SY: sp.Y, TX: tp.X, TY: tp.Y, SourcePos: from, TargetPos: to}
}

func sizeOr(v *float64, def float64) float64 {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}
