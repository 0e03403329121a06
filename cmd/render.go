package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/cricshot/pkg/field"
	"github.com/helmcode/cricshot/pkg/model"
	"github.com/helmcode/cricshot/pkg/parser"
)

var (
	renderAdvice  string
	renderOutput  string
	renderLoading bool
)

func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the field diagram for a saved shot",
		Long: `Render the cricket field as SVG, optionally with a shot drawn on it.
The advice file is the JSON or YAML written by 'cricshot analyze -o json|yaml'
or a bare advice object.

Examples:
  # Empty field
  cricshot render > field.svg

  # Replay a saved analysis
  cricshot analyze -o json > pull.json
  cricshot render --advice pull.json --out pull.svg`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}

	cmd.Flags().StringVarP(&renderAdvice, "advice", "a", "", "Advice file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&renderOutput, "out", "", "Write the SVG to this file instead of stdout")
	cmd.Flags().BoolVar(&renderLoading, "loading", false, "Render the in-progress state (no shot)")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	var advice *model.ShotAdvice
	if renderAdvice != "" {
		var err error
		if advice, err = loadAdvice(renderAdvice); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if renderOutput != "" {
		f, err := os.Create(renderOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", renderOutput, err)
		}
		defer f.Close()
		w = f
	}

	field.Render(w, advice, renderLoading)
	return nil
}

func loadAdvice(path string) (*model.ShotAdvice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read advice: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// Either a bare advice object or the analyze -o yaml wrapper.
		var report struct {
			Advice *yaml.Node `yaml:"advice"`
		}
		if err := yaml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if report.Advice != nil {
			if data, err = yaml.Marshal(report.Advice); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
		return parser.ParseShotYAML(data)
	default:
		if advice, err := parser.ParseShotResponse(string(data)); err == nil {
			return advice, nil
		}
		// Fall back to the analyze -o json wrapper.
		var report struct {
			Advice json.RawMessage `json:"advice"`
		}
		if err := json.Unmarshal(data, &report); err != nil || len(report.Advice) == 0 {
			return nil, fmt.Errorf("parse %s: %w", path, parser.ErrInvalidAdvice)
		}
		return parser.ParseShotResponse(string(report.Advice))
	}
}
