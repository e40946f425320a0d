package engine

import (
	"slices"

	"github.com/hailam/fixedply/internal/board"
)

// spatialScale turns the difference of doubled hull areas (at most 98 on an
// 8x8 grid) into at most 1 point, below the materialWeight of one pawn.
const spatialScale = 64

type point struct{ x, y int }

// SpatialControl compares the area of the convex hull enclosing each
// side's pieces, positive when White's pieces span more of the board.
func SpatialControl(pos *board.Position) int {
	return (hullArea2(pos.Occupied[board.White]) - hullArea2(pos.Occupied[board.Black])) / spatialScale
}

// hullArea2 returns twice the area of the convex hull of the squares in bb.
func hullArea2(bb board.Bitboard) int {
	pts := make([]point, 0, bb.Count())
	for bb != 0 {
		sq := bb.PopLSB()
		pts = append(pts, point{sq.File(), sq.Rank()})
	}
	hull := convexHull(pts)
	if len(hull) < 3 {
		return 0
	}
	area := 0
	for i := range hull {
		j := (i + 1) % len(hull)
		area += hull[i].x*hull[j].y - hull[j].x*hull[i].y
	}
	if area < 0 {
		area = -area
	}
	return area
}

// convexHull returns the hull vertices in counter-clockwise order (monotone chain).
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return pts
	}
	slices.SortFunc(pts, func(a, b point) int {
		if a.x != b.x {
			return a.x - b.x
		}
		return a.y - b.y
	})

	hull := make([]point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func cross(o, a, b point) int {
	return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
}
