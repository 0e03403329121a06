package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/cricshot/pkg/field"
	"github.com/helmcode/cricshot/pkg/formatter"
	"github.com/helmcode/cricshot/pkg/model"
	"github.com/helmcode/cricshot/pkg/session"
)

var (
	analyzeBowler   string
	analyzeLine     string
	analyzeLength   string
	analyzeOutput   string
	analyzeSVG      string
	analyzeProvider string
	analyzeModel    string
	analyzeVerbose  bool
)

func NewAnalyzeCmd() *cobra.Command {
	def := model.DefaultSelection()

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Ask the AI coach for the best shot against a delivery",
		Long: `Describe a delivery and get the single best orthodox shot for a
right-handed batter, with the fielding region it targets and tips to play it.

Values accept the display name or a short slug (see 'cricshot options').

Examples:
  # Short ball from a fast bowler at the stumps
  cricshot analyze --bowler fast --line stump-to-stump --length short

  # Save the field diagram as well
  cricshot analyze --bowler off-spin --length full --svg shot.svg

  # Machine-readable output from Claude
  cricshot analyze --provider claude -o json`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeBowler, "bowler", "b", string(def.Bowler), "Bowler type")
	cmd.Flags().StringVarP(&analyzeLine, "line", "l", string(def.Line), "Line of the delivery")
	cmd.Flags().StringVarP(&analyzeLength, "length", "L", string(def.Length), "Length of the delivery")
	cmd.Flags().StringVarP(&analyzeOutput, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&analyzeSVG, "svg", "", "Also write the field diagram to this file")
	cmd.Flags().StringVar(&analyzeProvider, "provider", "", providerHelp())
	cmd.Flags().StringVar(&analyzeModel, "model", "", "LLM model to use (overrides default)")
	cmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	logger := zap.NewNop()
	if analyzeVerbose {
		var err error
		if logger, err = newLogger(true); err != nil {
			return err
		}
		defer logger.Sync()
	}

	adv, err := newAdvisor(analyzeProvider, analyzeModel)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Writer = errOut
	s.Suffix = " Analyzing with AI..."

	notify := session.NotifierFunc(func(msg string) {
		s.Stop()
		printError(errOut, msg)
	})
	controller := session.NewController(adv, notify, logger)
	for _, u := range []struct {
		field session.Field
		value string
	}{
		{session.FieldBowler, analyzeBowler},
		{session.FieldLine, analyzeLine},
		{session.FieldLength, analyzeLength},
	} {
		if err := controller.UpdateSelection(u.field, u.value); err != nil {
			return err
		}
	}
	sel := controller.Snapshot().Selection

	if analyzeOutput == "human" {
		printHeader(out, sel, adv.Model())
	}

	s.Start()
	err = controller.TriggerAnalysis(cmd.Context())
	s.Stop()
	if err != nil {
		return fmt.Errorf("AI analysis failed: %w", err)
	}
	if analyzeOutput == "human" {
		printSuccess(out, "Analysis complete")
	}

	state := controller.Snapshot()
	if err := formatter.DisplayAdvice(out, state.Selection, state.Advice, analyzeOutput); err != nil {
		return err
	}

	if analyzeSVG != "" {
		f, err := os.Create(analyzeSVG)
		if err != nil {
			return fmt.Errorf("create %s: %w", analyzeSVG, err)
		}
		defer f.Close()
		field.Render(f, state.Advice, false)
		if analyzeOutput == "human" {
			printSuccess(out, fmt.Sprintf("Field diagram written to %s", analyzeSVG))
		}
	}
	return nil
}

func printHeader(w io.Writer, sel model.Selection, modelName string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w)
	cyan.Fprintln(w, "🏏 CricShot AI Coach")
	fmt.Fprintf(w, "🎯 Bowler: %s\n", sel.Bowler)
	fmt.Fprintf(w, "📏 Line: %s\n", sel.Line)
	fmt.Fprintf(w, "📐 Length: %s\n", sel.Length)
	fmt.Fprintf(w, "🤖 Model: %s\n", modelName)
	fmt.Fprintln(w)
}
