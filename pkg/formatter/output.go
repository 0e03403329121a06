package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/cricshot/pkg/model"
)

// Report is what the json and yaml formats emit.
type Report struct {
	Delivery model.Selection   `json:"delivery" yaml:"delivery"`
	Advice   *model.ShotAdvice `json:"advice" yaml:"advice"`
}

// DisplayAdvice formats and displays the shot advice
func DisplayAdvice(w io.Writer, sel model.Selection, advice *model.ShotAdvice, format string) error {
	report := Report{Delivery: sel, Advice: advice}
	switch format {
	case "json":
		return displayJSON(w, report)
	case "yaml":
		return displayYAML(w, report)
	case "human":
		fallthrough
	default:
		displayHuman(w, report)
	}
	return nil
}

func displayJSON(w io.Writer, report Report) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, report Report) error {
	output, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func displayHuman(w io.Writer, report Report) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	advice := report.Advice
	fmt.Fprintln(w)
	if advice == nil {
		fmt.Fprintln(w, "   No advice available.")
		return
	}

	cyan.Fprintf(w, "🏏 %s\n", advice.ShotName)
	fmt.Fprintf(w, "   Target: %s (%.0f°)\n", color.GreenString(advice.FieldingRegion), advice.PlacementAngle)
	riskColor(advice.RiskLevel).Fprintf(w, "   Risk: %s\n\n", advice.RiskLevel)

	white.Fprintln(w, "📄 WHY THIS SHOT:")
	fmt.Fprintln(w, wrapText(advice.Description, 80, "   "))
	fmt.Fprintln(w)

	if len(advice.ExecutionTips) > 0 {
		green.Fprintln(w, "✓ EXECUTION TIPS:")
		for i, tip := range advice.ExecutionTips {
			fmt.Fprintf(w, "   %d. %s\n", i+1, tip)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func riskColor(risk model.RiskLevel) *color.Color {
	switch risk {
	case model.RiskHigh:
		return color.New(color.FgRed, color.Bold)
	case model.RiskMedium:
		return color.New(color.FgYellow, color.Bold)
	case model.RiskLow:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
