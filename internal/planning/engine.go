package planning

import (
	"context"
	"log/slog"

	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/quality"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// BuildResult is the output of a full plan build: the plan itself plus
// everything worth surfacing about how the build went.
type BuildResult struct {
	Plan *plan.Plan `json:"plan"`

	// Findings holds every structural finding gathered across branches.
	Findings []StructuralFinding `json:"findings,omitempty"`

	// QualityReports maps branch IDs to their task specificity reports.
	QualityReports map[types.ID]quality.Report `json:"quality_reports,omitempty"`
}

// Engine is the facade over the full planning pipeline: domain
// classification, complexity scoring, branch sequencing, task assembly,
// and evolution. Callers that need finer control use the components
// directly; the CLI and the store go through the engine.
type Engine struct {
	classifier content.DomainClassifier
	generator  content.Generator
	idgen      types.IDGenerator
	sequencer  *Sequencer
	assembler  *Assembler
	evolver    *Evolver
	aggregator *plan.Aggregator
	emitter    EventEmitter
	logger     *slog.Logger
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger, which is also propagated to the
// pipeline components.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEngineEmitter propagates a planning event emitter to every pipeline
// component.
func WithEngineEmitter(emitter EventEmitter) EngineOption {
	return func(e *Engine) {
		e.emitter = emitter
		e.sequencer.emitter = emitter
		e.assembler.emitter = emitter
		e.evolver.emitter = emitter
	}
}

// WithEngineIDGenerator sets the identifier generator for all components.
// Tests pass a sequence generator here for deterministic plans.
func WithEngineIDGenerator(idgen types.IDGenerator) EngineOption {
	return func(e *Engine) {
		e.idgen = idgen
		e.sequencer.idgen = idgen
		e.assembler.idgen = idgen
	}
}

// NewEngine creates an Engine over the given content collaborators.
// A nil classifier falls back to the keyword classifier.
func NewEngine(classifier content.DomainClassifier, generator content.Generator, opts ...EngineOption) *Engine {
	if classifier == nil {
		classifier = content.NewKeywordClassifier()
	}

	idgen := types.NewUUIDGenerator()
	e := &Engine{
		classifier: classifier,
		generator:  generator,
		idgen:      idgen,
		sequencer:  NewSequencer(idgen),
		assembler:  NewAssembler(idgen, generator),
		evolver:    NewEvolver(),
		aggregator: plan.NewAggregator(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.sequencer.logger = e.logger
	e.assembler.logger = e.logger
	e.evolver.logger = e.logger

	return e
}

// BuildPlan runs the full decomposition pipeline for a goal statement:
// classify the domain, score complexity, sequence branches, and assemble
// each branch's validated task list. The returned plan is complete and
// internally consistent; findings and quality reports describe anything
// the pipeline clamped, dropped, or enhanced along the way.
func (e *Engine) BuildPlan(ctx context.Context, goalText string, learner content.LearnerContext) (*BuildResult, error) {
	if goalText == "" {
		return nil, NewInvalidParameterError("goal text cannot be empty")
	}

	domain, err := e.classifier.Classify(ctx, goalText)
	if err != nil {
		// Classification is advisory; an unreachable classifier degrades
		// to the generic domain rather than failing the build.
		e.logger.Warn("domain classification failed", "error", err)
		domain = content.DomainGeneric
	}

	goal := plan.Goal{
		Text:            goalText,
		ComplexityScore: content.EstimateComplexity(goalText),
		DomainArchetype: domain,
	}

	p := plan.New(e.idgen.NewID(), goal)

	candidates, err := e.generator.GenerateCandidateBranches(ctx, goal, learner)
	if err != nil {
		return nil, WrapPlanningError(ErrorTypeGeneration, "branch generation failed", err)
	}

	branches, err := e.sequencer.Sequence(ctx, p.ID, candidates, goal, learner)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		Plan:           p,
		QualityReports: make(map[types.ID]quality.Report, len(branches)),
	}

	for _, branch := range branches {
		if err := p.AddBranch(branch); err != nil {
			return nil, WrapPlanningError(ErrorTypeInternal, "branch registration failed", err)
		}

		assembly, err := e.assembler.Assemble(ctx, p.ID, branch, goal, learner)
		if err != nil {
			return nil, err
		}

		for _, task := range assembly.Tasks {
			if err := p.AddTask(task); err != nil {
				return nil, WrapPlanningError(ErrorTypeInternal, "task registration failed", err)
			}
		}

		result.Findings = append(result.Findings, assembly.Findings...)
		result.QualityReports[branch.ID] = assembly.QualityReport
	}

	e.logger.Info("built plan",
		"plan_id", p.ID,
		"goal", goalText,
		"domain", domain,
		"complexity", goal.ComplexityScore,
		"branches", len(p.Branches),
		"tasks", p.TotalTaskCount())

	if e.emitter != nil {
		if err := e.emitter.Emit(ctx, NewEvent(EventPlanGenerated, p.ID, map[string]any{
			"domain":   domain,
			"branches": len(p.Branches),
			"tasks":    p.TotalTaskCount(),
		})); err != nil {
			e.logger.Warn("failed to emit plan_generated event", "error", err)
		}
	}

	return result, nil
}

// Evolve applies one evolution event to a branch of the plan.
func (e *Engine) Evolve(ctx context.Context, p *plan.Plan, branchID types.ID, req EvolutionRequest) (*plan.Branch, error) {
	return e.evolver.Apply(ctx, p, branchID, req)
}

// CanProgress reports whether the given branch may transition to
// in_progress under the prerequisite gate.
func (e *Engine) CanProgress(p *plan.Plan, branchID types.ID) ProgressDecision {
	if p == nil {
		return ProgressDecision{CanProgress: false, Reason: "plan does not exist"}
	}
	return e.sequencer.CanProgressToPhase(p.Branch(branchID), p.Branches)
}

// Summarize rolls up the plan's progress.
func (e *Engine) Summarize(p *plan.Plan) plan.Summary {
	return e.aggregator.Summarize(p)
}

// NextEligiblePhase returns the first branch that could start now, or nil.
func (e *Engine) NextEligiblePhase(p *plan.Plan) *plan.Branch {
	return e.aggregator.NextEligiblePhase(p)
}
