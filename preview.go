package diagram

// Viewport is the pan and zoom of the canvas: screen = flow*Zoom + (X, Y).
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// ToFlow converts a screen point to flow coordinates. A zero zoom is treated as 1.
func (v Viewport) ToFlow(p Point) Point {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	return Point{X: (p.X - v.X) / z, Y: (p.Y - v.Y) / z}
}

// NodeAt returns the measured node whose box contains p, skipping the node
// with id exclude. Edges of the box count as inside.
func NodeAt(p Point, nodes []Node, exclude string) *Node {
	for i := range nodes {
		n := &nodes[i]
		if n.ID == exclude {
			continue
		}
		w, h, ok := n.Size()
		if !ok {
			continue
		}
		if p.X >= n.Position.X && p.X <= n.Position.X+w &&
			p.Y >= n.Position.Y && p.Y <= n.Position.Y+h {
			return n
		}
	}
	return nil
}

// Preview is the line drawn while the user drags a new connection.
// HoveredID is set when the cursor is over a node the line snaps to.
type Preview struct {
	Params
	HoveredID string `json:"hoveredId,omitempty"`
}

// PreviewLine computes the drag preview from node from to a cursor given in
// screen coordinates. Over another node the line snaps to the finalized edge
// geometry. Over empty canvas it leaves from the side of from facing the
// cursor along the dominant axis and ends at the cursor.
func PreviewLine(from Node, cursor Point, nodes []Node, vp Viewport) Preview {
	at := vp.ToFlow(cursor)
	if hovered := NodeAt(at, nodes, from.ID); hovered != nil {
		return Preview{Params: EdgeParams(from, *hovered), HoveredID: hovered.ID}
	}

	a := anchorsOf(from.Position, sizeOr(from.Width, DefaultNodeWidth), sizeOr(from.Height, DefaultNodeHeight))
	side, facing := dominantSides(at.X-a.Center.X, at.Y-a.Center.Y)
	sp := a.At(side)
	return Preview{Params: Params{
		SX: sp.X, SY: sp.Y,
		TX: at.X, TY: at.Y,
		SourcePos: side, TargetPos: facing,
	}}
}
