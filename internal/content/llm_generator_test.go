package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BretMeraki/Forest7-15-sub006/internal/llm"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// stubProvider returns a canned response or error and records the last
// request for prompt assertions.
type stubProvider struct {
	response string
	err      error
	lastReq  llm.CompletionRequest
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.response}, nil
}

func TestLLMGenerator_Branches(t *testing.T) {
	provider := &stubProvider{response: "```json\n" + `[
		{"name": "Syntax Footing", "description": "Get the toolchain working", "phase_key": "foundation", "base_duration": 0.2, "difficulty": 2},
		{"name": "Ship Something", "description": "Build a real project", "phase_key": "building", "base_duration": 0.4, "difficulty": 6}
	]` + "\n```"}

	gen := NewLLMGenerator(provider, WithTemperature(0.3), WithMaxTokens(512))
	goal := plan.Goal{Text: "learn rust", ComplexityScore: 5, DomainArchetype: DomainProgramming}

	candidates, err := gen.GenerateCandidateBranches(context.Background(), goal,
		LearnerContext{Interests: []string{"systems programming"}, Style: "project-driven"})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Syntax Footing", candidates[0].Name)
	assert.Equal(t, "building", candidates[1].PhaseKey)
	assert.InDelta(t, 0.4, candidates[1].BaseDuration, 0.0001)

	// Request carries the configured sampling knobs and the goal context.
	assert.InDelta(t, 0.3, provider.lastReq.Temperature, 0.0001)
	assert.Equal(t, 512, provider.lastReq.MaxTokens)
	assert.Contains(t, provider.lastReq.Prompt, "learn rust")
	assert.Contains(t, provider.lastReq.Prompt, "systems programming")
	assert.Contains(t, provider.lastReq.Prompt, "project-driven")
}

func TestLLMGenerator_Tasks(t *testing.T) {
	provider := &stubProvider{response: `[
		{"name": "Write a CLI argument parser", "type": "build", "difficulty": 4, "estimated_duration": 90},
		{"name": "Test the parser against edge cases", "type": "practice", "difficulty": 5, "estimated_duration": 60}
	]`}

	gen := NewLLMGenerator(provider)
	branch := &plan.Branch{ID: types.NewID(), Name: "Ship Something", PhaseKey: "building", Description: "Build a real project"}

	candidates, err := gen.GenerateCandidateTasks(context.Background(), branch,
		plan.Goal{Text: "learn rust"}, LearnerContext{}, 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, types.TaskTypeBuild, candidates[0].Type)
	assert.Equal(t, 90, candidates[0].EstimatedDuration)

	assert.Contains(t, provider.lastReq.Prompt, "Ship Something")
	assert.Contains(t, provider.lastReq.Prompt, "exactly 2 tasks")
}

func TestLLMGenerator_ErrorPaths(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		gen := NewLLMGenerator(&stubProvider{err: errors.New("connection refused")})
		_, err := gen.GenerateCandidateBranches(context.Background(), plan.Goal{Text: "g"}, LearnerContext{})
		assert.ErrorContains(t, err, "branch generation failed")
	})

	t.Run("unparseable response", func(t *testing.T) {
		gen := NewLLMGenerator(&stubProvider{response: "I refuse to answer in JSON."})
		_, err := gen.GenerateCandidateBranches(context.Background(), plan.Goal{Text: "g"}, LearnerContext{})
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		gen := NewLLMGenerator(&stubProvider{response: `[{"name": "Same"}, {"name": "Same"}]`})
		_, err := gen.GenerateCandidateBranches(context.Background(), plan.Goal{Text: "g"}, LearnerContext{})
		assert.ErrorContains(t, err, "duplicate branch name")
	})

	t.Run("nil branch rejected", func(t *testing.T) {
		gen := NewLLMGenerator(&stubProvider{response: "[]"})
		_, err := gen.GenerateCandidateTasks(context.Background(), nil, plan.Goal{Text: "g"}, LearnerContext{}, 3)
		assert.Error(t, err)
	})
}

func TestFallbackGenerator(t *testing.T) {
	goal := plan.Goal{Text: "learn rust", DomainArchetype: DomainProgramming}
	branch := &plan.Branch{ID: types.NewID(), Name: "Foundation", PhaseKey: "foundation"}

	t.Run("primary success passes through", func(t *testing.T) {
		primary := NewLLMGenerator(&stubProvider{response: `[{"name": "From the model", "phase_key": "foundation", "base_duration": 0.2}]`})
		gen := NewFallbackGenerator(primary, NewTemplateGenerator(nil), nil)

		candidates, err := gen.GenerateCandidateBranches(context.Background(), goal, LearnerContext{})
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "From the model", candidates[0].Name)
	})

	t.Run("primary failure falls back to templates", func(t *testing.T) {
		primary := NewLLMGenerator(&stubProvider{err: errors.New("provider down")})
		gen := NewFallbackGenerator(primary, NewTemplateGenerator(nil), nil)

		branches, err := gen.GenerateCandidateBranches(context.Background(), goal, LearnerContext{})
		require.NoError(t, err)
		assert.Len(t, branches, 4)

		tasks, err := gen.GenerateCandidateTasks(context.Background(), branch, goal, LearnerContext{}, 3)
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
	})
}
