package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/BretMeraki/Forest7-15-sub006/internal/llm"
)

// classifierSystemPrompt constrains the model to a single archetype token.
const classifierSystemPrompt = `Classify the goal into exactly one domain archetype.
Valid archetypes: programming, music, fitness, language, business, creative, photography, generic.
Respond with the single archetype word and nothing else.`

// LLMClassifier implements DomainClassifier with a completion provider.
// Any error or unrecognized answer degrades to the keyword classifier, so
// classification never fails the planning path.
type LLMClassifier struct {
	provider llm.Provider
	fallback DomainClassifier
}

// NewLLMClassifier creates an LLMClassifier with a keyword-table fallback.
func NewLLMClassifier(provider llm.Provider) *LLMClassifier {
	return &LLMClassifier{
		provider: provider,
		fallback: NewKeywordClassifier(),
	}
}

// Classify asks the model for an archetype, validating the answer against
// the known set.
func (c *LLMClassifier) Classify(ctx context.Context, goalText string) (string, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:    classifierSystemPrompt,
		Prompt:    fmt.Sprintf("Goal: %s", goalText),
		MaxTokens: 10,
	})
	if err != nil {
		return c.fallback.Classify(ctx, goalText)
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Content))
	switch answer {
	case DomainProgramming, DomainMusic, DomainFitness, DomainLanguage,
		DomainBusiness, DomainCreative, DomainPhotography, DomainGeneric:
		return answer, nil
	}

	return c.fallback.Classify(ctx, goalText)
}

// Ensure LLMClassifier implements DomainClassifier at compile time
var _ DomainClassifier = (*LLMClassifier)(nil)
