package planning

import (
	"context"
	"log/slog"

	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/graph"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/quality"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// Task count heuristic bounds.
const (
	minTasksPerBranch = 2
	maxTasksPerBranch = 10

	// Duration fraction thresholds that grow or shrink the task count.
	largeBranchThreshold = 0.3
	smallBranchThreshold = 0.15
)

// defaultTaskDuration fills in for candidates that leave duration unset.
const defaultTaskDuration = 60

// phaseBaseTaskCounts maps phase keys to their base task count.
// Unknown phases fall back to the generic default of 4.
var phaseBaseTaskCounts = map[string]int{
	"foundation": 4,
	"research":   3,
	"practice":   5,
	"building":   4,
	"mastery":    3,
}

const genericBaseTaskCount = 4

// AssemblyResult is the output of assembling one branch's task list.
type AssemblyResult struct {
	// Tasks is the assembled, validated, enhanced task list in execution
	// order.
	Tasks []*plan.Task

	// Findings holds structural findings gathered during assembly:
	// dropped cycle edges and difficulty jumps. The plan stays usable;
	// findings exist so callers can surface them.
	Findings []StructuralFinding

	// QualityReport is the specificity validation run over the assembled
	// tasks, scored before enhancement.
	QualityReport quality.Report
}

// Assembler turns generator candidates into a branch's validated task list:
// it sizes the list, wires dependency edges, enforces the difficulty
// progression, and runs the specificity gate.
type Assembler struct {
	idgen       types.IDGenerator
	generator   content.Generator
	graphCheck  *graph.Validator
	specificity *quality.Validator
	enhancer    *quality.Enhancer
	logger      *slog.Logger
	emitter     EventEmitter
}

// AssemblerOption is a functional option for configuring an Assembler.
type AssemblerOption func(*Assembler)

// WithAssemblerLogger sets the logger.
func WithAssemblerLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithAssemblerEmitter sets the planning event emitter.
func WithAssemblerEmitter(emitter EventEmitter) AssemblerOption {
	return func(a *Assembler) {
		a.emitter = emitter
	}
}

// NewAssembler creates an Assembler using the given generator for task
// content. A nil ID generator falls back to UUIDs.
func NewAssembler(idgen types.IDGenerator, generator content.Generator, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		idgen:       idgen,
		generator:   generator,
		graphCheck:  graph.NewValidator(),
		specificity: quality.NewValidator(),
		enhancer:    quality.NewEnhancer(),
		logger:      slog.New(slog.DiscardHandler),
	}
	if a.idgen == nil {
		a.idgen = types.NewUUIDGenerator()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble generates and validates the task list for one branch.
//
// Pipeline:
//  1. Size the list from the phase's base count, the branch's duration
//     fraction, and the learner's granularity preference.
//  2. Request candidates from the generator (it may return fewer or more).
//  3. Wire dependencies: every task depends on its predecessor, and
//     application tasks (practice, build) additionally depend on every
//     earlier foundation task (research, study, analysis) in the branch.
//  4. Run the graph validator; a detected cycle drops the closing edge and
//     records a circular_dependency finding rather than failing assembly.
//  5. Apply the difficulty progression and collect jump findings.
//  6. Run the specificity gate; critical findings are auto-enhanced,
//     warnings pass through unmodified.
//
// The returned tasks are not yet registered in a Plan; the caller owns
// that step.
func (a *Assembler) Assemble(ctx context.Context, planID types.ID, branch *plan.Branch, goal plan.Goal, learner content.LearnerContext) (*AssemblyResult, error) {
	if branch == nil {
		return nil, NewInvalidParameterError("branch cannot be nil")
	}

	count := a.taskCount(branch, learner)

	candidates, err := a.generator.GenerateCandidateTasks(ctx, branch, goal, learner, count)
	if err != nil {
		return nil, WrapPlanningError(ErrorTypeGeneration, "task generation failed", err)
	}
	if len(candidates) == 0 {
		return nil, NewPlanningError(ErrorTypeGeneration, "generator returned no task candidates")
	}
	if err := content.ValidateTaskNames(candidates); err != nil {
		return nil, WrapPlanningError(ErrorTypeGeneration, "task candidates rejected", err)
	}

	tasks := a.buildTasks(branch, candidates)
	findings := a.resolveCycles(ctx, planID, tasks)

	tasks = ApplyProgression(tasks, DefaultStartingDifficulty)
	findings = append(findings, FindProgressionIssues(tasks)...)

	report := a.specificity.ValidateAll(tasks, goal)
	for i, task := range tasks {
		issues := report.TaskIssues[i]
		if quality.HasCritical(issues) {
			tasks[i] = a.enhancer.Enhance(task, goal, issues)
		}
	}

	a.logger.Info("assembled tasks",
		"plan_id", planID,
		"branch", branch.Name,
		"requested", count,
		"assembled", len(tasks),
		"quality_score", report.Score,
		"findings", len(findings))

	a.emit(ctx, NewEvent(EventTasksAssembled, planID, map[string]any{
		"branch_id":     branch.ID.String(),
		"task_count":    len(tasks),
		"quality_score": report.Score,
	}))

	return &AssemblyResult{
		Tasks:         tasks,
		Findings:      findings,
		QualityReport: report,
	}, nil
}

// taskCount sizes a branch's task list: phase-keyed base count, adjusted
// for the branch's share of total effort and the learner's granularity
// preference, clamped to [2, 10].
func (a *Assembler) taskCount(branch *plan.Branch, learner content.LearnerContext) int {
	count, ok := phaseBaseTaskCounts[branch.PhaseKey]
	if !ok {
		count = genericBaseTaskCount
	}

	if branch.DurationFraction > largeBranchThreshold {
		count += 2
	} else if branch.DurationFraction < smallBranchThreshold {
		count--
		if count < minTasksPerBranch {
			count = minTasksPerBranch
		}
	}

	switch learner.Granularity {
	case "high":
		count += 2
	case "low":
		count -= 2
	}

	return clampInt(count, minTasksPerBranch, maxTasksPerBranch)
}

// buildTasks materializes candidates as tasks and wires dependency edges.
// Edges only ever point at tasks created earlier in this pass, so forward
// references are impossible by construction.
func (a *Assembler) buildTasks(branch *plan.Branch, candidates []content.CandidateTask) []*plan.Task {
	tasks := make([]*plan.Task, 0, len(candidates))

	for i, candidate := range candidates {
		taskType := candidate.Type
		if !taskType.IsValid() {
			taskType = types.TaskTypeGeneric
		}

		duration := candidate.EstimatedDuration
		if duration <= 0 {
			duration = defaultTaskDuration
		}

		task := &plan.Task{
			ID:                       a.idgen.NewID(),
			BranchID:                 branch.ID,
			Name:                     candidate.Name,
			Description:              candidate.Description,
			Type:                     taskType,
			Difficulty:               clampInt(candidate.Difficulty, plan.MinDifficulty, plan.MaxDifficulty),
			EstimatedDurationMinutes: duration,
			Dependencies:             []types.ID{},
			Status:                   types.TaskStatusNotStarted,
			Deliverable:              candidate.Deliverable,
			FirstAction:              candidate.FirstAction,
			SuccessValidation:        candidate.SuccessValidation,
		}

		// Sequential chain: each task depends on its predecessor.
		if i > 0 {
			task.Dependencies = append(task.Dependencies, tasks[i-1].ID)
		}

		// Foundation-before-application: practice and build tasks depend
		// on every earlier research/study/analysis task in the branch.
		if task.Type.IsApplication() {
			for _, earlier := range tasks[:i] {
				if earlier.Type.IsFoundation() && !task.DependsOn(earlier.ID) {
					task.Dependencies = append(task.Dependencies, earlier.ID)
				}
			}
		}

		tasks = append(tasks, task)
	}

	return tasks
}

// resolveCycles validates the dependency graph and, for each cycle found,
// drops the edge that closed it and records a circular_dependency finding
// on the offending task. Sequential construction makes cycles unreachable
// here, but expand-supplied task sets go through the same path and are not
// so constrained.
func (a *Assembler) resolveCycles(ctx context.Context, planID types.ID, tasks []*plan.Task) []StructuralFinding {
	findings := []StructuralFinding{}

	byID := make(map[types.ID]*plan.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	for {
		result := a.graphCheck.Validate(taskNodes(tasks))
		if result.Acyclic {
			return findings
		}

		// Cycle path comes back as [n0, ..., n0] in dependency order;
		// the closing edge is n0's dependency on the second-to-last member.
		members := result.CycleMembers
		offender := byID[types.ID(members[0])]
		depID := types.ID(members[len(members)-2])

		offender.Dependencies = removeID(offender.Dependencies, depID)

		finding := StructuralFinding{
			Type:    FindingCircularDependency,
			NodeID:  offender.ID,
			Message: "dependency cycle detected; dropped edge to " + depID.String(),
			Details: map[string]any{
				"members":      members,
				"dropped_edge": depID.String(),
			},
		}
		findings = append(findings, finding)

		a.logger.Warn("dropped cyclic dependency edge",
			"task", offender.Name,
			"edge", depID)

		a.emit(ctx, NewEvent(EventConstraintViolation, planID, map[string]any{
			"violation": FindingCircularDependency.String(),
			"task_id":   offender.ID.String(),
		}))
	}
}

// taskNodes projects tasks into graph validator nodes.
func taskNodes(tasks []*plan.Task) []graph.Node {
	nodes := make([]graph.Node, 0, len(tasks))
	for _, t := range tasks {
		deps := make([]string, 0, len(t.Dependencies))
		for _, d := range t.Dependencies {
			deps = append(deps, d.String())
		}
		nodes = append(nodes, graph.Node{ID: t.ID.String(), DependsOn: deps})
	}
	return nodes
}

func removeID(ids []types.ID, target types.ID) []types.ID {
	result := ids[:0]
	for _, id := range ids {
		if id != target {
			result = append(result, id)
		}
	}
	return result
}

func (a *Assembler) emit(ctx context.Context, event Event) {
	if a.emitter == nil {
		return
	}
	_ = a.emitter.Emit(ctx, event)
}
