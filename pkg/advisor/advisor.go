package advisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/helmcode/cricshot/pkg/llm"
	"github.com/helmcode/cricshot/pkg/model"
	"github.com/helmcode/cricshot/pkg/parser"
	"github.com/helmcode/cricshot/pkg/prompts"
)

// ErrTransport wraps any failure of the model call itself.
var ErrTransport = errors.New("advice request failed")

// Requester produces shot advice for a delivery.
type Requester interface {
	RequestAdvice(ctx context.Context, sel model.Selection) (*model.ShotAdvice, error)
}

// Advisor asks an LLM for one shot per delivery. It holds no per-request
// state and is safe to call concurrently.
type Advisor struct {
	llm llm.LLM
}

func NewWithLLM(l llm.LLM) *Advisor {
	return &Advisor{llm: l}
}

func NewWithProvider(provider llm.Provider, config map[string]string) (*Advisor, error) {
	factory := llm.NewFactory()
	llmInstance, err := factory.CreateLLM(provider, config)
	if err != nil {
		return nil, err
	}
	return &Advisor{llm: llmInstance}, nil
}

// Model reports the backing model name.
func (a *Advisor) Model() string {
	return a.llm.GetModel()
}

// RequestAdvice makes exactly one model call. Errors wrap ErrTransport,
// parser.ErrEmptyResponse or parser.ErrInvalidAdvice.
func (a *Advisor) RequestAdvice(ctx context.Context, sel model.Selection) (*model.ShotAdvice, error) {
	prompt := prompts.BuildShotPrompt(sel)

	rawResp, err := a.llm.Chat(ctx, prompt, prompts.ShotAdviceSchema())
	if err != nil {
		return nil, fmt.Errorf("%w: LLM chat: %w", ErrTransport, err)
	}

	return parser.ParseShotResponse(rawResp)
}
