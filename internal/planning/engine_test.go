package planning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/graph"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

func newTestEngine() *Engine {
	classifier := content.NewKeywordClassifier()
	return NewEngine(classifier, content.NewTemplateGenerator(classifier),
		WithEngineIDGenerator(types.NewSequenceGenerator("id")))
}

func TestBuildPlan_EndToEnd(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.BuildPlan(context.Background(),
		"learn to code a backend api in Python", content.LearnerContext{})
	require.NoError(t, err)

	p := result.Plan
	assert.Equal(t, "programming", p.Goal.DomainArchetype)
	assert.NotZero(t, p.Goal.ComplexityScore)
	require.NotEmpty(t, p.Branches)
	assert.Positive(t, p.TotalTaskCount())

	// Every branch stays within duration bounds and has its quality report.
	for _, branch := range p.Branches {
		assert.GreaterOrEqual(t, branch.DurationFraction, plan.MinDurationFraction)
		assert.LessOrEqual(t, branch.DurationFraction, plan.MaxDurationFraction)
		assert.NotEmpty(t, p.TasksForBranch(branch.ID))
		assert.Contains(t, result.QualityReports, branch.ID)
	}
}

func TestBuildPlan_TaskGraphsAreAcyclic(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.BuildPlan(context.Background(),
		"learn guitar", content.LearnerContext{})
	require.NoError(t, err)

	validator := graph.NewValidator()
	for _, branch := range result.Plan.Branches {
		tasks := result.Plan.TasksForBranch(branch.ID)
		nodes := make([]graph.Node, 0, len(tasks))
		for _, task := range tasks {
			deps := make([]string, 0, len(task.Dependencies))
			for _, id := range task.Dependencies {
				deps = append(deps, id.String())
			}
			nodes = append(nodes, graph.Node{ID: task.ID.String(), DependsOn: deps})
		}
		assert.True(t, validator.Validate(nodes).Acyclic, "branch %s", branch.Name)
	}
}

func TestBuildPlan_DeterministicWithSequenceIDs(t *testing.T) {
	first, err := newTestEngine().BuildPlan(context.Background(),
		"run a marathon", content.LearnerContext{})
	require.NoError(t, err)

	second, err := newTestEngine().BuildPlan(context.Background(),
		"run a marathon", content.LearnerContext{})
	require.NoError(t, err)

	require.Equal(t, len(first.Plan.Branches), len(second.Plan.Branches))
	for i := range first.Plan.Branches {
		assert.Equal(t, first.Plan.Branches[i].Name, second.Plan.Branches[i].Name)
		assert.Equal(t, first.Plan.Branches[i].ID, second.Plan.Branches[i].ID)
	}
	assert.Equal(t, first.Plan.TotalTaskCount(), second.Plan.TotalTaskCount())
}

func TestBuildPlan_EmitsPlanGeneratedEvent(t *testing.T) {
	emitter := NewChannelEventEmitter()
	defer emitter.Close()
	events, cleanup := emitter.Subscribe(context.Background())
	defer cleanup()

	classifier := content.NewKeywordClassifier()
	engine := NewEngine(classifier, content.NewTemplateGenerator(classifier),
		WithEngineEmitter(emitter))

	result, err := engine.BuildPlan(context.Background(), "learn guitar", content.LearnerContext{})
	require.NoError(t, err)

	// Drain until the terminal event; per-branch events come first.
	var last Event
	for {
		select {
		case event := <-events:
			last = event
			if event.Type == EventPlanGenerated {
				assert.Equal(t, result.Plan.ID, event.PlanID)
				assert.Equal(t, len(result.Plan.Branches), event.Payload["branches"])
				return
			}
		default:
			t.Fatalf("no plan_generated event seen, last was %v", last.Type)
		}
	}
}

func TestBuildPlan_EmptyGoalRejected(t *testing.T) {
	_, err := newTestEngine().BuildPlan(context.Background(), "", content.LearnerContext{})
	assert.ErrorIs(t, err, NewPlanningError(ErrorTypeInvalidParameter, ""))
}

func TestEngine_EvolveAndProgress(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	result, err := engine.BuildPlan(ctx, "learn guitar", content.LearnerContext{})
	require.NoError(t, err)
	p := result.Plan
	require.GreaterOrEqual(t, len(p.Branches), 2)

	// Second branch is gated until the first completes.
	decision := engine.CanProgress(p, p.Branches[1].ID)
	assert.False(t, decision.CanProgress)

	p.Branches[0].Status = types.BranchStatusCompleted
	decision = engine.CanProgress(p, p.Branches[1].ID)
	assert.True(t, decision.CanProgress)

	// Evolution through the engine lands in the plan.
	updated, err := engine.Evolve(ctx, p, p.Branches[1].ID, EvolutionRequest{
		Type:   types.EvolutionDecelerate,
		Reason: "slower pace requested",
	})
	require.NoError(t, err)
	assert.Len(t, updated.Adaptations, 1)

	summary := engine.Summarize(p)
	assert.Equal(t, len(p.Branches), summary.TotalPhases)
	assert.Equal(t, 1, summary.CompletedPhases)

	next := engine.NextEligiblePhase(p)
	require.NotNil(t, next)
	assert.Equal(t, p.Branches[1].ID, next.ID)
}
