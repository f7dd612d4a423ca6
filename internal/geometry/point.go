package geometry

import "math"

// Point is a coordinate in graph space or in a node's local space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// NearestPoint returns the candidate closest to target. The boolean is false
// when candidates is empty; callers skip the connection in that case.
// Ties keep the earliest candidate.
func NearestPoint(target Point, candidates []Point) (Point, bool) {
	if len(candidates) == 0 {
		return Point{}, false
	}
	best := candidates[0]
	bestDist := target.Distance(best)
	for _, c := range candidates[1:] {
		if d := target.Distance(c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}

// Translate offsets every point by delta, returning a new slice.
func Translate(points []Point, delta Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Add(delta)
	}
	return out
}
