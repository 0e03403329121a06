package prompts

import (
	"fmt"

	"github.com/helmcode/cricshot/pkg/llm"
	"github.com/helmcode/cricshot/pkg/model"
)

// BuildShotPrompt returns the coaching prompt for a delivery. The output is
// a pure function of the selection.
func BuildShotPrompt(sel model.Selection) string {
	return fmt.Sprintf(`You are an expert cricket batting coach.
A Right Handed Batsman (RHB) is facing a delivery.

Condition:
- Bowler Type: %s
- Line: %s
- Length: %s

Suggest the single best, most effective orthodox cricket shot for this specific delivery.
Calculate the angle of the shot relative to the pitch.
Coordinate system for angle (degrees clockwise, 0-360):
- 0 degrees: Straight drive (towards bowler)
- 45 degrees: Mid-off / Extra Cover
- 90 degrees: Point / Cover (Off-side square)
- 135 degrees: Third Man
- 180 degrees: Behind the keeper (Scoop/Ramp)
- 225 degrees: Fine Leg
- 270 degrees: Square Leg / Mid Wicket (Leg-side square)
- 315 degrees: Mid-on
Interpolate between these for anything in between.

Return the response in strict JSON format.`, sel.Bowler, sel.Line, sel.Length)
}

// ShotAdviceSchema is the structured output every provider is asked for.
func ShotAdviceSchema() *llm.Schema {
	risk := make([]string, 0, 3)
	for _, r := range model.AllRiskLevels() {
		risk = append(risk, string(r))
	}

	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"shotName":    {Type: llm.TypeString, Description: "Name of the cricket shot"},
			"description": {Type: llm.TypeString, Description: "Brief explanation of why this shot is chosen"},
			"executionTips": {
				Type:        llm.TypeArray,
				Items:       &llm.Schema{Type: llm.TypeString},
				Description: "List of 2-3 key technical tips to execute the shot",
			},
			"riskLevel":      {Type: llm.TypeString, Enum: risk},
			"placementAngle": {Type: llm.TypeNumber, Description: "Angle in degrees (0-360) for visual placement"},
			"fieldingRegion": {Type: llm.TypeString, Description: "Name of the fielding position where ball is likely to go"},
		},
		Required:      adviceFields,
		PropertyOrder: adviceFields,
	}
}

var adviceFields = []string{"shotName", "description", "executionTips", "riskLevel", "placementAngle", "fieldingRegion"}
