package planning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// evolvablePlan builds a one-branch plan with two completed-chain tasks.
func evolvablePlan(t *testing.T) (*plan.Plan, *plan.Branch) {
	t.Helper()

	p := plan.New(types.NewID(), plan.Goal{Text: "learn blacksmithing", ComplexityScore: 5})

	branch := &plan.Branch{
		ID:               types.NewID(),
		Name:             "Forge Work",
		PhaseKey:         "practice",
		DurationFraction: 0.3,
		Difficulty:       5,
		Status:           types.BranchStatusInProgress,
		Focus:            "Hammer control",
		KeyActivities:    []string{"drawing out", "tapering"},
		Tasks:            []types.ID{},
		Adaptations:      []plan.Evolution{},
		LastModified:     time.Now().Add(-time.Hour),
	}
	require.NoError(t, p.AddBranch(branch))

	first := &plan.Task{ID: types.NewID(), BranchID: branch.ID, Name: "Forge a simple hook", Difficulty: 4, EstimatedDurationMinutes: 90}
	second := &plan.Task{ID: types.NewID(), BranchID: branch.ID, Name: "Forge a pair of tongs", Difficulty: 6, EstimatedDurationMinutes: 120,
		Dependencies: []types.ID{first.ID}}
	require.NoError(t, p.AddTask(first))
	require.NoError(t, p.AddTask(second))

	return p, branch
}

func TestEvolve_Accelerate(t *testing.T) {
	p, branch := evolvablePlan(t)
	before := branch.LastModified

	updated, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:   types.EvolutionAccelerate,
		Reason: "learner is ahead of schedule",
	})
	require.NoError(t, err)

	// 0.3 * 0.8 = 0.24, difficulty 5 becomes 6.
	assert.InDelta(t, 0.24, updated.DurationFraction, 0.0001)
	assert.Equal(t, 6, updated.Difficulty)

	require.Len(t, updated.Adaptations, 1)
	record := updated.Adaptations[0]
	assert.Equal(t, types.EvolutionAccelerate, record.Type)
	assert.Equal(t, "learner is ahead of schedule", record.Reason)
	assert.True(t, updated.LastModified.After(before))

	// The plan holds the updated version.
	assert.Same(t, updated, p.Branch(branch.ID))
}

func TestEvolve_AccelerateClampsAtBounds(t *testing.T) {
	p, branch := evolvablePlan(t)
	branch.DurationFraction = 0.05
	branch.Difficulty = 10

	updated, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:   types.EvolutionAccelerate,
		Reason: "push harder",
	})
	require.NoError(t, err)

	assert.InDelta(t, plan.MinDurationFraction, updated.DurationFraction, 0.0001)
	assert.Equal(t, plan.MaxDifficulty, updated.Difficulty)
}

func TestEvolve_Decelerate(t *testing.T) {
	p, branch := evolvablePlan(t)

	updated, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:   types.EvolutionDecelerate,
		Reason: "learner is struggling",
	})
	require.NoError(t, err)

	// 0.3 * 1.2 = 0.36, difficulty 5 becomes 4.
	assert.InDelta(t, 0.36, updated.DurationFraction, 0.0001)
	assert.Equal(t, 4, updated.Difficulty)
}

func TestEvolve_Refocus(t *testing.T) {
	p, branch := evolvablePlan(t)

	updated, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:             types.EvolutionRefocus,
		Reason:           "interest shifted to bladesmithing",
		NewFocus:         "Blade geometry",
		NewKeyActivities: []string{"grinding bevels", "heat treating"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Blade geometry", updated.Focus)
	assert.Equal(t, []string{"grinding bevels", "heat treating"}, updated.KeyActivities)

	require.Len(t, updated.Adaptations, 1)
	changes := updated.Adaptations[0].Changes
	assert.Contains(t, changes, "focus")
	assert.Contains(t, changes, "key_activities")
}

func TestEvolve_RefocusRequiresNewContent(t *testing.T) {
	p, branch := evolvablePlan(t)

	_, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:   types.EvolutionRefocus,
		Reason: "no actual change",
	})
	assert.ErrorIs(t, err, NewPlanningError(ErrorTypeInvalidParameter, ""))
}

func TestEvolve_Expand(t *testing.T) {
	p, branch := evolvablePlan(t)
	existing := p.TasksForBranch(branch.ID)

	extra := &plan.Task{
		ID:                       types.NewID(),
		Name:                     "Forge a fire poker",
		Type:                     types.TaskTypeBuild,
		Difficulty:               6,
		EstimatedDurationMinutes: 90,
		Dependencies:             []types.ID{existing[1].ID},
	}

	updated, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:            types.EvolutionExpand,
		Reason:          "learner wants more projects",
		AdditionalTasks: []*plan.Task{extra},
		ScopeNote:       "extra forging projects",
	})
	require.NoError(t, err)

	// The appended ID appears in the branch's task list exactly once.
	require.Len(t, updated.Tasks, 3)
	occurrences := 0
	for _, id := range updated.Tasks {
		if id == extra.ID {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)
	assert.Len(t, p.TasksForBranch(branch.ID), 3)
	assert.Equal(t, 3, p.TotalTaskCount())

	assert.Equal(t, []string{"extra forging projects"}, updated.ExpandedScope)

	// The plan holds a staged copy; the caller's task object stays untouched.
	registered := p.Task(extra.ID)
	require.NotNil(t, registered)
	assert.NotSame(t, extra, registered)
	assert.Equal(t, branch.ID, registered.BranchID)
	assert.True(t, extra.BranchID.IsZero())
}

func TestEvolve_ExpandRejectsCycle(t *testing.T) {
	p, branch := evolvablePlan(t)

	a := &plan.Task{ID: "expand-a", Name: "first extra", Type: types.TaskTypeBuild, Difficulty: 6, EstimatedDurationMinutes: 60}
	b := &plan.Task{ID: "expand-b", Name: "second extra", Type: types.TaskTypeBuild, Difficulty: 6, EstimatedDurationMinutes: 60}
	a.Dependencies = []types.ID{b.ID}
	b.Dependencies = []types.ID{a.ID}

	_, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:            types.EvolutionExpand,
		Reason:          "bad expansion",
		AdditionalTasks: []*plan.Task{a, b},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, NewPlanningError(ErrorTypeStructural, ""))

	// Rejection leaves the plan untouched.
	assert.Equal(t, 2, p.TotalTaskCount())
	assert.Empty(t, p.Branch(branch.ID).Adaptations)
	assert.Nil(t, p.Task(a.ID))
}

func TestEvolve_ExpandRejectsDifficultyJump(t *testing.T) {
	p, branch := evolvablePlan(t)

	// Existing tasks end at difficulty 6; a difficulty 10 addition jumps by 4.
	extra := &plan.Task{ID: types.NewID(), Name: "way too hard", Type: types.TaskTypeBuild,
		Difficulty: 10, EstimatedDurationMinutes: 60}

	_, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:            types.EvolutionExpand,
		Reason:          "over-ambitious",
		AdditionalTasks: []*plan.Task{extra},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, NewPlanningError(ErrorTypeStructural, ""))
	assert.Equal(t, 2, p.TotalTaskCount())

	// Rejection also leaves the caller's task object untouched.
	assert.True(t, extra.BranchID.IsZero())
	assert.Equal(t, 10, extra.Difficulty)
	assert.Equal(t, types.TaskTypeBuild, extra.Type)
}

func TestEvolve_ExpandValidatesTasks(t *testing.T) {
	p, branch := evolvablePlan(t)

	tests := []struct {
		name string
		task *plan.Task
	}{
		{"missing id", &plan.Task{Name: "no id", EstimatedDurationMinutes: 60}},
		{"no duration", &plan.Task{ID: types.NewID(), Name: "no duration"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvolver().Apply(context.Background(), p, branch.ID, EvolutionRequest{
				Type:            types.EvolutionExpand,
				Reason:          "invalid",
				AdditionalTasks: []*plan.Task{tt.task},
			})
			assert.ErrorIs(t, err, NewPlanningError(ErrorTypeInvalidParameter, ""))
		})
	}
}

func TestEvolve_RejectsUnknownTypeAndBranch(t *testing.T) {
	p, branch := evolvablePlan(t)
	evolver := NewEvolver()

	_, err := evolver.Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type: types.EvolutionType("rewind"), Reason: "nope",
	})
	assert.ErrorIs(t, err, NewPlanningError(ErrorTypeInvalidParameter, ""))

	_, err = evolver.Apply(context.Background(), p, types.NewID(), EvolutionRequest{
		Type: types.EvolutionAccelerate, Reason: "nope",
	})
	assert.Error(t, err)
}

func TestEvolve_EmitsEvents(t *testing.T) {
	p, branch := evolvablePlan(t)

	emitter := NewChannelEventEmitter()
	defer emitter.Close()
	events, cleanup := emitter.Subscribe(context.Background())
	defer cleanup()

	evolver := NewEvolver(WithEvolverEmitter(emitter))
	_, err := evolver.Apply(context.Background(), p, branch.ID, EvolutionRequest{
		Type:   types.EvolutionAccelerate,
		Reason: "pace up",
	})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, EventEvolutionApplied, event.Type)
		assert.Equal(t, p.ID, event.PlanID)
	default:
		t.Fatal("expected an evolution_applied event")
	}
}
