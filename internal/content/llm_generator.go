package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BretMeraki/Forest7-15-sub006/internal/llm"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
)

// branchSystemPrompt establishes the output contract for branch generation.
const branchSystemPrompt = `You are a planning assistant that decomposes goals into strategic phases.
Respond with a JSON array only. Each element must have the fields:
"name", "description", "phase_key", "base_duration" (fraction of total effort, 0.05-0.5),
"difficulty" (1-10), "focus", "key_activities" (array of strings).
Phase keys should be one of: foundation, research, practice, building, mastery.
Names must be unique. Do not include any prose outside the JSON.`

// taskSystemPrompt establishes the output contract for task generation.
const taskSystemPrompt = `You are a planning assistant that writes concrete, specific tasks.
Respond with a JSON array only. Each element must have the fields:
"name", "description", "type" (one of research, study, analysis, practice, build, review),
"difficulty" (1-10), "estimated_duration" (minutes), "deliverable", "first_action",
"success_validation". Task names must start with a strong action verb and be unique.
Never use vague phrases like "learn about" or "understand". Do not include any prose
outside the JSON.`

// LLMGenerator implements Generator by prompting a completion provider and
// extracting JSON candidates from the response. Output is untrusted: the
// only contract enforced here is name uniqueness; everything else is the
// specificity validator's problem downstream.
type LLMGenerator struct {
	provider    llm.Provider
	logger      *slog.Logger
	temperature float64
	maxTokens   int
}

// LLMGeneratorOption is a functional option for configuring an LLMGenerator.
type LLMGeneratorOption func(*LLMGenerator)

// WithLLMGeneratorLogger sets the logger.
func WithLLMGeneratorLogger(logger *slog.Logger) LLMGeneratorOption {
	return func(g *LLMGenerator) {
		g.logger = logger
	}
}

// WithTemperature sets the sampling temperature for generation requests.
func WithTemperature(temperature float64) LLMGeneratorOption {
	return func(g *LLMGenerator) {
		g.temperature = temperature
	}
}

// WithMaxTokens caps the response length for generation requests.
func WithMaxTokens(maxTokens int) LLMGeneratorOption {
	return func(g *LLMGenerator) {
		g.maxTokens = maxTokens
	}
}

// NewLLMGenerator creates an LLMGenerator.
func NewLLMGenerator(provider llm.Provider, opts ...LLMGeneratorOption) *LLMGenerator {
	g := &LLMGenerator{
		provider:    provider,
		logger:      slog.New(slog.DiscardHandler),
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateCandidateBranches prompts the model for strategic phases.
func (g *LLMGenerator) GenerateCandidateBranches(ctx context.Context, goal plan.Goal, learner LearnerContext) ([]CandidateBranch, error) {
	prompt := buildBranchPrompt(goal, learner)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:      branchSystemPrompt,
		Prompt:      prompt,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("branch generation failed: %w", err)
	}

	candidates, err := llm.ExtractJSONAs[[]CandidateBranch](resp.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse branch candidates: %w", err)
	}

	if err := ValidateBranchNames(candidates); err != nil {
		return nil, err
	}

	g.logger.Debug("generated branch candidates",
		"provider", g.provider.Name(),
		"count", len(candidates))

	return candidates, nil
}

// GenerateCandidateTasks prompts the model for tasks within one branch.
func (g *LLMGenerator) GenerateCandidateTasks(ctx context.Context, branch *plan.Branch, goal plan.Goal, learner LearnerContext, count int) ([]CandidateTask, error) {
	if branch == nil {
		return nil, fmt.Errorf("branch cannot be nil")
	}

	prompt := buildTaskPrompt(branch, goal, learner, count)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:      taskSystemPrompt,
		Prompt:      prompt,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("task generation failed: %w", err)
	}

	candidates, err := llm.ExtractJSONAs[[]CandidateTask](resp.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse task candidates: %w", err)
	}

	if err := ValidateTaskNames(candidates); err != nil {
		return nil, err
	}

	g.logger.Debug("generated task candidates",
		"provider", g.provider.Name(),
		"branch", branch.Name,
		"requested", count,
		"count", len(candidates))

	return candidates, nil
}

func buildBranchPrompt(goal plan.Goal, learner LearnerContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", goal.Text)
	fmt.Fprintf(&b, "Complexity: %d/10\n", goal.ComplexityScore)
	if goal.DomainArchetype != "" {
		fmt.Fprintf(&b, "Domain: %s\n", goal.DomainArchetype)
	}
	if len(learner.Interests) > 0 {
		fmt.Fprintf(&b, "Learner interests: %s\n", strings.Join(learner.Interests, ", "))
	}
	if learner.Style != "" {
		fmt.Fprintf(&b, "Preference profile: %s\n", learner.Style)
	}
	b.WriteString("Propose 3-5 strategic phases that take the learner from their current state to this goal.")
	return b.String()
}

func buildTaskPrompt(branch *plan.Branch, goal plan.Goal, learner LearnerContext, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", goal.Text)
	fmt.Fprintf(&b, "Phase: %s (%s)\n", branch.Name, branch.PhaseKey)
	fmt.Fprintf(&b, "Phase description: %s\n", branch.Description)
	if branch.Focus != "" {
		fmt.Fprintf(&b, "Phase focus: %s\n", branch.Focus)
	}
	if len(learner.Interests) > 0 {
		fmt.Fprintf(&b, "Learner interests: %s\n", strings.Join(learner.Interests, ", "))
	}
	fmt.Fprintf(&b, "Propose exactly %d tasks for this phase, ordered from easiest to hardest.", count)
	return b.String()
}

// FallbackGenerator tries a primary generator and falls back to a secondary
// on any error. Pairing the LLM generator with the template generator gives
// plan creation a zero-cost deterministic fallback, so generation never
// fails outright when a provider is down.
type FallbackGenerator struct {
	primary   Generator
	secondary Generator
	logger    *slog.Logger
}

// NewFallbackGenerator creates a FallbackGenerator.
func NewFallbackGenerator(primary, secondary Generator, logger *slog.Logger) *FallbackGenerator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FallbackGenerator{primary: primary, secondary: secondary, logger: logger}
}

// GenerateCandidateBranches delegates to the primary generator, falling
// back to the secondary on error.
func (g *FallbackGenerator) GenerateCandidateBranches(ctx context.Context, goal plan.Goal, learner LearnerContext) ([]CandidateBranch, error) {
	candidates, err := g.primary.GenerateCandidateBranches(ctx, goal, learner)
	if err == nil {
		return candidates, nil
	}

	g.logger.Warn("primary generator failed, falling back", "error", err)
	return g.secondary.GenerateCandidateBranches(ctx, goal, learner)
}

// GenerateCandidateTasks delegates to the primary generator, falling back
// to the secondary on error.
func (g *FallbackGenerator) GenerateCandidateTasks(ctx context.Context, branch *plan.Branch, goal plan.Goal, learner LearnerContext, count int) ([]CandidateTask, error) {
	candidates, err := g.primary.GenerateCandidateTasks(ctx, branch, goal, learner, count)
	if err == nil {
		return candidates, nil
	}

	g.logger.Warn("primary generator failed, falling back", "error", err)
	return g.secondary.GenerateCandidateTasks(ctx, branch, goal, learner, count)
}

// Ensure implementations satisfy Generator at compile time
var (
	_ Generator = (*LLMGenerator)(nil)
	_ Generator = (*FallbackGenerator)(nil)
)
