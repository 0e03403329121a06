package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/helmcode/cricshot/pkg/advisor"
	"github.com/helmcode/cricshot/pkg/llm"
)

// newAdvisor builds the advisor from flags and the environment. Tests
// replace it.
var newAdvisor = func(provider, model string) (*advisor.Advisor, error) {
	return advisor.NewWithProvider(llm.EnvConfig(provider, model))
}

func providerHelp() string {
	return fmt.Sprintf("LLM provider (%s). Defaults to LLM_PROVIDER or gemini", llm.NewFactory().ProviderList())
}

// newLogger builds the production zap logger used by the long-running
// commands; verbose switches it to debug level.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(w, "✓ %s\n", msg)
}

func printError(w io.Writer, msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "✗ %s\n", msg)
}
