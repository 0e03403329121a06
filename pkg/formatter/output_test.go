package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/cricshot/pkg/model"
)

func init() {
	color.NoColor = true
}

func sweep() *model.ShotAdvice {
	return &model.ShotAdvice{
		ShotName:       "Sweep Shot",
		Description:    "Full on leg stump from an off spinner, get down and sweep.",
		ExecutionTips:  []string{"Front knee down", "Roll the wrists on contact"},
		RiskLevel:      model.RiskHigh,
		PlacementAngle: 250,
		FieldingRegion: "Backward Square Leg",
	}
}

func TestDisplayAdviceHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayAdvice(&buf, model.DefaultSelection(), sweep(), "human"))
	out := buf.String()

	assert.Contains(t, out, "Sweep Shot")
	assert.Contains(t, out, "Target: Backward Square Leg (250°)")
	assert.Contains(t, out, "Risk: High")
	assert.Contains(t, out, "1. Front knee down")
	assert.Contains(t, out, "2. Roll the wrists on contact")
}

func TestDisplayAdviceUnknownFormatFallsBackToHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayAdvice(&buf, model.DefaultSelection(), sweep(), "table"))
	assert.Contains(t, buf.String(), "EXECUTION TIPS")
}

func TestDisplayAdviceHumanWithoutAdvice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayAdvice(&buf, model.DefaultSelection(), nil, "human"))
	assert.Contains(t, buf.String(), "No advice available")
}

func TestDisplayAdviceJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayAdvice(&buf, model.DefaultSelection(), sweep(), "json"))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, model.DefaultSelection(), got.Delivery)
	assert.Equal(t, sweep(), got.Advice)
	assert.Contains(t, buf.String(), `"placementAngle": 250`)
}

func TestDisplayAdviceYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayAdvice(&buf, model.DefaultSelection(), sweep(), "yaml"))

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sweep(), got.Advice)
	assert.Contains(t, buf.String(), "fieldingRegion: Backward Square Leg")
}

func TestWrapText(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, line := range strings.Split(wrapText(text, 30, "  "), "\n") {
		assert.LessOrEqual(t, len(line), 30)
		assert.True(t, strings.HasPrefix(line, "  "))
	}
}
