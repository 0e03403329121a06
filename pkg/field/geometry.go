package field

import "math"

// Fixed diagram geometry, in SVG user units.
const (
	Size         = 400
	CenterX      = Size / 2
	CenterY      = Size / 2
	FieldRadius  = 180
	PitchWidth   = 20
	PitchHeight  = 60
	shotInset    = 20
	creaseOffset = 10
)

// Point is a position on the canvas; Y grows downwards.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// ShotOrigin is where every shot starts: just in front of the batting
// crease at the bottom end of the pitch.
func ShotOrigin() Point {
	return Point{X: CenterX, Y: battingEndY() - creaseOffset}
}

// ShotLength is the length of a drawn shot line.
func ShotLength() float64 {
	return FieldRadius - shotInset
}

// RenderAngle converts a placement angle (0 = towards the bowler, clockwise)
// to canvas degrees (0 = rightwards, positive towards +Y).
func RenderAngle(placement float64) float64 {
	return placement - 90
}

// PlacementPoint maps a placement angle to the shot's end point.
func PlacementPoint(placement float64) Point {
	rad := RenderAngle(placement) * math.Pi / 180
	o := ShotOrigin()
	return Point{
		X: o.X + ShotLength()*math.Cos(rad),
		Y: o.Y + ShotLength()*math.Sin(rad),
	}
}

func battingEndY() float64 {
	return CenterY + PitchHeight/2
}
