// Package field draws the fielding-circle diagram as SVG.
package field

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/helmcode/cricshot/pkg/model"
)

const (
	grassColor = "#10b981"
	soilColor  = "#eab308"
	shotColor  = "#fbbf24"

	// Reveal timings in seconds: line, then marker, then label.
	lineGrow    = 1.0
	markerDelay = 1.0
	markerGrow  = 0.5
	labelDelay  = 1.2
	labelFade   = 0.5

	markerRadius = 15
	labelOffset  = 20
)

// Render writes a complete SVG document for the diagram. The shot line,
// marker and label are only drawn when advice is present and not loading.
// Each call is independent of the previous one.
func Render(w io.Writer, advice *model.ShotAdvice, loading bool) {
	canvas := svg.New(w)
	canvas.Start(Size, Size, `viewBox="0 0 400 400"`)

	canvas.Def()
	canvas.Marker("arrowhead", 5, 0, 4, 4, `viewBox="0 -5 10 10" orient="auto"`)
	canvas.Path("M0,-5L10,0L0,5", `fill="`+shotColor+`"`)
	canvas.MarkerEnd()
	canvas.DefEnd()

	drawField(canvas)

	if advice != nil && !loading {
		drawShot(canvas, advice)
	}

	canvas.End()
}

// RenderString is Render into a string.
func RenderString(advice *model.ShotAdvice, loading bool) string {
	var buf bytes.Buffer
	Render(&buf, advice, loading)
	return buf.String()
}

func drawField(canvas *svg.SVG) {
	top := CenterY - PitchHeight/2
	bottom := CenterY + PitchHeight/2

	canvas.Gid("field")
	canvas.Circle(CenterX, CenterY, FieldRadius, `fill="`+grassColor+`" stroke="#ffffff" stroke-width="2"`)
	// 30-yard fielding restriction circle
	canvas.Circle(CenterX, CenterY, FieldRadius*6/10,
		`fill="none" stroke="rgba(255,255,255,0.5)" stroke-dasharray="4 4" stroke-width="1"`)
	canvas.Roundrect(CenterX-PitchWidth/2, top, PitchWidth, PitchHeight, 2, 2, `fill="`+soilColor+`"`)
	// stumps, bowler end then batting end
	canvas.Line(CenterX-5, top+2, CenterX+5, top+2, `stroke="#000" stroke-width="2"`)
	canvas.Line(CenterX-5, bottom-2, CenterX+5, bottom-2, `stroke="#000" stroke-width="2"`)
	// right-handed batter stands slightly to the leg side
	canvas.Circle(CenterX+4, bottom-5, 3, `fill="#000000"`)
	canvas.Gend()
}

func drawShot(canvas *svg.SVG, advice *model.ShotAdvice) {
	o := ShotOrigin()
	end := PlacementPoint(advice.PlacementAngle)
	ox, oy := px(o.X), px(o.Y)
	ex, ey := px(end.X), px(end.Y)

	canvas.Gid("shot")

	canvas.Line(ox, oy, ox, oy,
		`id="shot-line" stroke="`+shotColor+`" stroke-width="4" marker-end="url(#arrowhead)"`)
	canvas.Animate("#shot-line", "x2", ox, ex, lineGrow, 1, `begin="0s" fill="freeze"`)
	canvas.Animate("#shot-line", "y2", oy, ey, lineGrow, 1, `begin="0s" fill="freeze"`)

	canvas.Circle(ex, ey, 0, `id="shot-target" fill="rgba(251, 191, 36, 0.5)" stroke="`+shotColor+`"`)
	canvas.Animate("#shot-target", "r", 0, markerRadius, markerGrow, 1, begin(markerDelay)+` fill="freeze"`)

	canvas.Text(ex, ey-labelOffset, advice.FieldingRegion,
		`id="shot-label" text-anchor="middle" fill="#ffffff" font-size="12px" font-weight="bold" opacity="0"`,
		"text-shadow: 1px 1px 2px rgba(0,0,0,0.8)")
	canvas.Animate("#shot-label", "opacity", 0, 1, labelFade, 1, begin(labelDelay)+` fill="freeze"`)

	canvas.Gend()
}

func begin(seconds float64) string {
	return fmt.Sprintf(`begin="%gs"`, seconds)
}

func px(v float64) int {
	return int(math.Round(v))
}
