package llm

import (
	"fmt"
	"os"
	"strings"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// Factory creates LLM instances based on provider
type Factory struct{}

// NewFactory creates a new LLM factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateLLM creates an LLM instance based on provider and configuration.
// Recognised config keys are "api_key" and "model".
func (f *Factory) CreateLLM(provider Provider, config map[string]string) (LLM, error) {
	apiKey := config["api_key"]
	model := config["model"]

	switch provider {
	case ProviderGemini, "":
		// A missing Gemini key is reported by the API on first use.
		if model != "" {
			return NewGeminiWithModel(apiKey, model), nil
		}
		return NewGemini(apiKey), nil

	case ProviderClaude:
		if apiKey == "" {
			return nil, fmt.Errorf("Claude API key is required")
		}
		if model != "" {
			return NewClaudeWithModel(apiKey, model), nil
		}
		return NewClaude(apiKey), nil

	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		if model != "" {
			return NewOpenAIWithModel(apiKey, model), nil
		}
		return NewOpenAI(apiKey), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: %s)", provider, f.ProviderList())
	}
}

// GetAvailableProviders returns a list of available LLM providers
func (f *Factory) GetAvailableProviders() []Provider {
	return []Provider{ProviderGemini, ProviderClaude, ProviderOpenAI}
}

// ProviderList is GetAvailableProviders joined for help and error text.
func (f *Factory) ProviderList() string {
	names := make([]string, 0, 3)
	for _, p := range f.GetAvailableProviders() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// EnvConfig resolves the provider, key and model from the environment.
// Explicit overrides win over LLM_PROVIDER and the per-provider model vars.
func EnvConfig(providerOverride, modelOverride string) (Provider, map[string]string) {
	provider := Provider(strings.ToLower(providerOverride))
	if provider == "" {
		provider = Provider(strings.ToLower(os.Getenv("LLM_PROVIDER")))
	}
	if provider == "" {
		provider = ProviderGemini
	}

	var apiKey, model string
	switch provider {
	case ProviderGemini:
		apiKey = firstEnv("GEMINI_API_KEY", "API_KEY")
		model = os.Getenv("GEMINI_MODEL")
	case ProviderClaude:
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		model = os.Getenv("CLAUDE_MODEL")
	case ProviderOpenAI:
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = os.Getenv("OPENAI_MODEL")
	}
	if modelOverride != "" {
		model = modelOverride
	}
	return provider, map[string]string{"api_key": apiKey, "model": model}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
