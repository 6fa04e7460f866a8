// Package planning assembles generator candidates into a validated plan
// graph and adapts it as learner feedback arrives. It is synchronous,
// performs no I/O, and operates purely on the in-memory plan model - the
// enclosing system owns persistence, transport, and writer serialization.
package planning

import (
	"context"
	"log/slog"
	"time"

	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// Complexity thresholds and factors for duration scaling.
const (
	highComplexityThreshold = 8
	lowComplexityThreshold  = 3
	highComplexityFactor    = 1.2
	lowComplexityFactor     = 0.8
)

// defaultBranchDifficulty is used when a candidate leaves difficulty unset.
const defaultBranchDifficulty = 5

// styleMultipliers maps named preference profiles to per-phase duration
// multipliers. Applied after complexity scaling when the phase key matches,
// then re-clamped.
var styleMultipliers = map[string]map[string]float64{
	"research-heavy": {"research": 1.3, "foundation": 1.1},
	"project-driven": {"building": 1.3, "practice": 1.1},
	"practice-first": {"practice": 1.25},
}

// ProgressDecision is the result of a phase-gating query.
type ProgressDecision struct {
	// CanProgress is true when every prerequisite branch is completed.
	CanProgress bool `json:"can_progress"`

	// Reason explains a negative decision. Empty when CanProgress is true.
	Reason string `json:"reason,omitempty"`
}

// Sequencer assembles strategic branches from generator candidates:
// it computes duration fractions, attaches prerequisites, and answers
// phase-transition eligibility queries.
type Sequencer struct {
	idgen   types.IDGenerator
	logger  *slog.Logger
	emitter EventEmitter
}

// SequencerOption is a functional option for configuring a Sequencer.
type SequencerOption func(*Sequencer)

// WithSequencerLogger sets the logger.
func WithSequencerLogger(logger *slog.Logger) SequencerOption {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// WithSequencerEmitter sets the planning event emitter.
func WithSequencerEmitter(emitter EventEmitter) SequencerOption {
	return func(s *Sequencer) {
		s.emitter = emitter
	}
}

// NewSequencer creates a Sequencer. A nil generator falls back to UUIDs.
func NewSequencer(idgen types.IDGenerator, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		idgen:  idgen,
		logger: slog.New(slog.DiscardHandler),
	}
	if s.idgen == nil {
		s.idgen = types.NewUUIDGenerator()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sequence turns candidate branches into plan branches in creation order.
//
// For each candidate:
//   - duration = clamp(base * complexityFactor, 0.05, 0.5), where the
//     factor is 1.2 for complexity ≥ 8 and 0.8 for complexity ≤ 3
//   - a matching preference-profile multiplier scales further, re-clamped
//   - prerequisites are the union of all previously sequenced branch ids,
//     a total order that guarantees acyclicity by construction
//
// Returns an error only when the generator contract is broken (duplicate
// candidate names). Out-of-range numbers are clamped, never rejected.
func (s *Sequencer) Sequence(ctx context.Context, planID types.ID, candidates []content.CandidateBranch, goal plan.Goal, learner content.LearnerContext) ([]*plan.Branch, error) {
	if len(candidates) == 0 {
		return nil, NewInvalidParameterError("no candidate branches to sequence")
	}

	if err := content.ValidateBranchNames(candidates); err != nil {
		return nil, WrapPlanningError(ErrorTypeGeneration, "candidate branches rejected", err)
	}

	phaseMultipliers := styleMultipliers[learner.Style]

	branches := make([]*plan.Branch, 0, len(candidates))
	previousIDs := make([]types.ID, 0, len(candidates))
	now := time.Now()

	for _, candidate := range candidates {
		duration := scaleDuration(candidate.BaseDuration, goal.ComplexityScore)
		if m, ok := phaseMultipliers[candidate.PhaseKey]; ok {
			duration = clampFloat(duration*m, plan.MinDurationFraction, plan.MaxDurationFraction)
		}

		difficulty := candidate.Difficulty
		if difficulty == 0 {
			difficulty = defaultBranchDifficulty
		}
		difficulty = clampInt(difficulty, plan.MinDifficulty, plan.MaxDifficulty)

		branch := &plan.Branch{
			ID:               s.idgen.NewID(),
			Name:             candidate.Name,
			Description:      candidate.Description,
			PhaseKey:         candidate.PhaseKey,
			Prerequisites:    append([]types.ID(nil), previousIDs...),
			DurationFraction: duration,
			Difficulty:       difficulty,
			Status:           types.BranchStatusNotStarted,
			Focus:            candidate.Focus,
			KeyActivities:    append([]string(nil), candidate.KeyActivities...),
			Tasks:            []types.ID{},
			Adaptations:      []plan.Evolution{},
			CreatedAt:        now,
			LastModified:     now,
		}

		branches = append(branches, branch)
		previousIDs = append(previousIDs, branch.ID)
	}

	s.logger.Info("sequenced branches",
		"plan_id", planID,
		"count", len(branches),
		"complexity", goal.ComplexityScore)

	s.emit(ctx, NewEvent(EventBranchesSequenced, planID, map[string]any{
		"count": len(branches),
	}))

	return branches, nil
}

// CanProgressToPhase reports whether the target branch may transition to
// in_progress: true only when every prerequisite branch is completed.
func (s *Sequencer) CanProgressToPhase(target *plan.Branch, branches []*plan.Branch) ProgressDecision {
	if target == nil {
		return ProgressDecision{CanProgress: false, Reason: "target branch does not exist"}
	}

	byID := make(map[types.ID]*plan.Branch, len(branches))
	for _, b := range branches {
		byID[b.ID] = b
	}

	for _, prereqID := range target.Prerequisites {
		prereq, ok := byID[prereqID]
		if !ok {
			return ProgressDecision{
				CanProgress: false,
				Reason:      "prerequisite branch " + prereqID.String() + " does not exist",
			}
		}
		if prereq.Status != types.BranchStatusCompleted {
			return ProgressDecision{
				CanProgress: false,
				Reason:      "prerequisite branch " + prereq.Name + " is not completed",
			}
		}
	}

	return ProgressDecision{CanProgress: true}
}

// scaleDuration applies complexity scaling and clamps to the duration
// fraction bounds.
func scaleDuration(base float64, complexity int) float64 {
	factor := 1.0
	switch {
	case complexity >= highComplexityThreshold:
		factor = highComplexityFactor
	case complexity <= lowComplexityThreshold:
		factor = lowComplexityFactor
	}
	return clampFloat(base*factor, plan.MinDurationFraction, plan.MaxDurationFraction)
}

func (s *Sequencer) emit(ctx context.Context, event Event) {
	if s.emitter == nil {
		return
	}
	// Event delivery is best-effort; a closed emitter never fails planning.
	_ = s.emitter.Emit(ctx, event)
}
