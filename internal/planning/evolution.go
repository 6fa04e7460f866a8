package planning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BretMeraki/Forest7-15-sub006/internal/graph"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// Evolution scaling factors. Accelerating a branch compresses its share of
// plan effort and raises difficulty; decelerating does the opposite.
const (
	accelerateDurationFactor = 0.8
	decelerateDurationFactor = 1.2
)

// EvolutionRequest describes one adaptation to apply to a branch. Type and
// Reason are always required; the remaining fields are read only by the
// event types that use them.
type EvolutionRequest struct {
	// Type selects the adaptation: accelerate, decelerate, refocus, expand.
	Type types.EvolutionType `json:"type"`

	// Reason is recorded verbatim in the branch's audit trail.
	Reason string `json:"reason"`

	// NewFocus and NewKeyActivities replace the branch's focus wholesale.
	// Refocus only.
	NewFocus         string   `json:"new_focus,omitempty"`
	NewKeyActivities []string `json:"new_key_activities,omitempty"`

	// AdditionalTasks are appended to the branch's task list. Expand only.
	// Each task must carry an ID and a positive duration, and the combined
	// dependency graph must stay acyclic or the whole event is rejected.
	AdditionalTasks []*plan.Task `json:"additional_tasks,omitempty"`

	// ScopeNote describes what the expansion adds; recorded in the branch's
	// ExpandedScope list. Expand only.
	ScopeNote string `json:"scope_note,omitempty"`
}

// Evolver applies evolution events to plan branches using copy-and-replace:
// mutations run on a clone, and the clone is swapped into the plan only
// after every sub-step succeeds. A rejected event leaves the plan untouched.
type Evolver struct {
	graphCheck *graph.Validator
	logger     *slog.Logger
	emitter    EventEmitter
}

// EvolverOption is a functional option for configuring an Evolver.
type EvolverOption func(*Evolver)

// WithEvolverLogger sets the logger.
func WithEvolverLogger(logger *slog.Logger) EvolverOption {
	return func(e *Evolver) {
		e.logger = logger
	}
}

// WithEvolverEmitter sets the planning event emitter.
func WithEvolverEmitter(emitter EventEmitter) EvolverOption {
	return func(e *Evolver) {
		e.emitter = emitter
	}
}

// NewEvolver creates an Evolver.
func NewEvolver(opts ...EvolverOption) *Evolver {
	e := &Evolver{
		graphCheck: graph.NewValidator(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply executes one evolution event against a branch of the plan.
//
// Semantics per type:
//   - accelerate: duration fraction x0.8 (floor 0.05), difficulty +1 (cap 10)
//   - decelerate: duration fraction x1.2 (cap 0.5), difficulty -1 (floor 1)
//   - refocus: Focus and KeyActivities replaced wholesale
//   - expand: AdditionalTasks appended after the combined dependency graph
//     and difficulty progression are re-validated; any failure rejects the
//     whole event
//
// Every applied event appends an Evolution record carrying the before and
// after values of the touched fields, and bumps LastModified. Returns the
// branch version now live in the plan.
func (e *Evolver) Apply(ctx context.Context, p *plan.Plan, branchID types.ID, req EvolutionRequest) (*plan.Branch, error) {
	if p == nil {
		return nil, NewInvalidParameterError("plan cannot be nil")
	}
	branch := p.Branch(branchID)
	if branch == nil {
		return nil, e.reject(ctx, p.ID, branchID, req,
			NewInvalidParameterError(fmt.Sprintf("branch %s not found in plan", branchID)))
	}
	if !req.Type.IsValid() {
		return nil, e.reject(ctx, p.ID, branchID, req,
			NewInvalidParameterError(fmt.Sprintf("unknown evolution type %q", req.Type)))
	}

	clone := branch.Clone()

	var changes map[string]any
	var staged []*plan.Task
	var err error

	switch req.Type {
	case types.EvolutionAccelerate:
		changes = e.applyPace(clone, accelerateDurationFactor, +1)
	case types.EvolutionDecelerate:
		changes = e.applyPace(clone, decelerateDurationFactor, -1)
	case types.EvolutionRefocus:
		changes, err = e.applyRefocus(clone, req)
	case types.EvolutionExpand:
		staged, changes, err = e.applyExpand(p, clone, req)
	}
	if err != nil {
		return nil, e.reject(ctx, p.ID, branchID, req, err)
	}

	record := plan.Evolution{
		Timestamp: time.Now(),
		Type:      req.Type,
		Changes:   changes,
		Reason:    req.Reason,
	}
	clone.Adaptations = append(clone.Adaptations, record)
	clone.LastModified = record.Timestamp

	// Commit point. Everything before this line touched only the clone.
	if err := p.ReplaceBranch(clone); err != nil {
		return nil, e.reject(ctx, p.ID, branchID, req,
			WrapPlanningError(ErrorTypeInternal, "branch replacement failed", err))
	}
	// AddTask both registers the task in the arena and appends its ID to
	// the committed branch's task list.
	for _, t := range staged {
		if err := p.AddTask(t); err != nil {
			// Pre-validation makes this unreachable; surface it loudly
			// rather than silently losing a task.
			return nil, WrapPlanningError(ErrorTypeInternal, "task registration failed after commit", err)
		}
	}

	e.logger.Info("applied evolution",
		"plan_id", p.ID,
		"branch", clone.Name,
		"type", req.Type,
		"reason", req.Reason)

	e.emit(ctx, NewEvent(EventEvolutionApplied, p.ID, map[string]any{
		"branch_id": branchID.String(),
		"type":      req.Type.String(),
		"reason":    req.Reason,
	}))

	return clone, nil
}

// applyPace adjusts duration fraction and difficulty in tandem. Results are
// clamped to model bounds, never rejected.
func (e *Evolver) applyPace(clone *plan.Branch, durationFactor float64, difficultyDelta int) map[string]any {
	oldDuration := clone.DurationFraction
	oldDifficulty := clone.Difficulty

	clone.DurationFraction = clampFloat(oldDuration*durationFactor, plan.MinDurationFraction, plan.MaxDurationFraction)
	clone.Difficulty = clampInt(oldDifficulty+difficultyDelta, plan.MinDifficulty, plan.MaxDifficulty)

	return map[string]any{
		"duration_fraction": map[string]any{"from": oldDuration, "to": clone.DurationFraction},
		"difficulty":        map[string]any{"from": oldDifficulty, "to": clone.Difficulty},
	}
}

// applyRefocus replaces the branch's focus description wholesale.
func (e *Evolver) applyRefocus(clone *plan.Branch, req EvolutionRequest) (map[string]any, error) {
	if req.NewFocus == "" && len(req.NewKeyActivities) == 0 {
		return nil, NewInvalidParameterError("refocus requires a new focus or new key activities")
	}

	changes := map[string]any{}
	if req.NewFocus != "" {
		changes["focus"] = map[string]any{"from": clone.Focus, "to": req.NewFocus}
		clone.Focus = req.NewFocus
	}
	if len(req.NewKeyActivities) > 0 {
		changes["key_activities"] = map[string]any{
			"from": append([]string(nil), clone.KeyActivities...),
			"to":   append([]string(nil), req.NewKeyActivities...),
		}
		clone.KeyActivities = append([]string(nil), req.NewKeyActivities...)
	}
	return changes, nil
}

// applyExpand validates the additional tasks and stages them as clones of
// the caller's objects. The staged tasks enter the plan arena only at
// commit, through AddTask, which also appends their IDs to the branch's
// task list; nothing the caller passed in is ever mutated.
func (e *Evolver) applyExpand(p *plan.Plan, clone *plan.Branch, req EvolutionRequest) ([]*plan.Task, map[string]any, error) {
	if len(req.AdditionalTasks) == 0 {
		return nil, nil, NewInvalidParameterError("expand requires at least one additional task")
	}

	existing := p.TasksForBranch(clone.ID)
	combined := make([]*plan.Task, 0, len(existing)+len(req.AdditionalTasks))
	combined = append(combined, existing...)

	staged := make([]*plan.Task, 0, len(req.AdditionalTasks))
	addedIDs := make([]string, 0, len(req.AdditionalTasks))
	for _, t := range req.AdditionalTasks {
		if t == nil || t.ID.IsZero() {
			return nil, nil, NewInvalidParameterError("additional tasks must carry an ID")
		}
		if p.Task(t.ID) != nil {
			return nil, nil, NewInvalidParameterError(fmt.Sprintf("task %s already exists in plan", t.ID))
		}
		if t.EstimatedDurationMinutes <= 0 {
			return nil, nil, NewInvalidParameterError(fmt.Sprintf("task %q has no positive duration", t.Name))
		}

		st := t.Clone()
		st.BranchID = clone.ID
		if !st.Type.IsValid() {
			st.Type = types.TaskTypeGeneric
		}
		st.Difficulty = clampInt(st.Difficulty, plan.MinDifficulty, plan.MaxDifficulty)
		combined = append(combined, st)
		staged = append(staged, st)
		addedIDs = append(addedIDs, st.ID.String())
	}

	// Expansion is all-or-nothing: a cycle or a difficulty jump in the
	// combined list rejects the whole event instead of dropping edges.
	result := e.graphCheck.Validate(taskNodes(combined))
	if !result.Acyclic {
		return nil, nil, NewStructuralError(fmt.Sprintf(
			"additional tasks introduce a dependency cycle: %v", result.CycleMembers))
	}
	if issues := FindProgressionIssues(combined); len(issues) > 0 {
		return nil, nil, NewStructuralError(issues[0].Message)
	}

	if req.ScopeNote != "" {
		clone.ExpandedScope = append(clone.ExpandedScope, req.ScopeNote)
	}

	return staged, map[string]any{
		"added_tasks":    addedIDs,
		"expanded_scope": req.ScopeNote,
	}, nil
}

// reject logs and emits a rejection, then returns the error unchanged so
// callers see the original failure.
func (e *Evolver) reject(ctx context.Context, planID, branchID types.ID, req EvolutionRequest, err error) error {
	e.logger.Warn("rejected evolution",
		"plan_id", planID,
		"branch_id", branchID,
		"type", req.Type,
		"error", err)

	e.emit(ctx, NewEvent(EventEvolutionRejected, planID, map[string]any{
		"branch_id": branchID.String(),
		"type":      req.Type.String(),
		"error":     err.Error(),
	}))

	return err
}

func (e *Evolver) emit(ctx context.Context, event Event) {
	if e.emitter == nil {
		return
	}
	_ = e.emitter.Emit(ctx, event)
}
