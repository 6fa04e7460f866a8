package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// branchTemplate is one phase blueprint in the template library.
type branchTemplate struct {
	name         string
	description  string
	phaseKey     string
	baseDuration float64
	difficulty   int
	focus        string
	activities   []string
}

// taskTemplate is one task blueprint. The %s slots receive the goal text.
type taskTemplate struct {
	name              string
	description       string
	taskType          types.TaskType
	duration          int
	deliverable       string
	firstAction       string
	successValidation string
}

// TemplateGenerator implements Generator with a deterministic domain
// template library. It needs no network and no model, which makes it both
// the offline fallback and the reference generator for tests.
type TemplateGenerator struct {
	classifier DomainClassifier
}

// NewTemplateGenerator creates a TemplateGenerator using the given
// classifier to pick a domain template set. A nil classifier defaults to
// the keyword classifier.
func NewTemplateGenerator(classifier DomainClassifier) *TemplateGenerator {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	return &TemplateGenerator{classifier: classifier}
}

// GenerateCandidateBranches returns the domain's phase blueprint
// instantiated for the goal.
func (g *TemplateGenerator) GenerateCandidateBranches(ctx context.Context, goal plan.Goal, _ LearnerContext) ([]CandidateBranch, error) {
	domain := goal.DomainArchetype
	if domain == "" {
		classified, err := g.classifier.Classify(ctx, goal.Text)
		if err != nil {
			return nil, fmt.Errorf("domain classification failed: %w", err)
		}
		domain = classified
	}

	templates, ok := branchLibrary[domain]
	if !ok {
		templates = branchLibrary[DomainGeneric]
	}

	subject := subjectFromGoal(goal.Text)
	candidates := make([]CandidateBranch, 0, len(templates))
	for _, tpl := range templates {
		candidates = append(candidates, CandidateBranch{
			Name:          fmt.Sprintf(tpl.name, subject),
			Description:   fmt.Sprintf(tpl.description, subject),
			PhaseKey:      tpl.phaseKey,
			BaseDuration:  tpl.baseDuration,
			Difficulty:    tpl.difficulty,
			Focus:         tpl.focus,
			KeyActivities: tpl.activities,
		})
	}

	return candidates, nil
}

// GenerateCandidateTasks returns up to count task candidates for the
// branch's phase, cycling through the phase's task templates when count
// exceeds the template pool.
func (g *TemplateGenerator) GenerateCandidateTasks(_ context.Context, branch *plan.Branch, goal plan.Goal, _ LearnerContext, count int) ([]CandidateTask, error) {
	if branch == nil {
		return nil, fmt.Errorf("branch cannot be nil")
	}
	if count <= 0 {
		count = 1
	}

	templates, ok := taskLibrary[branch.PhaseKey]
	if !ok {
		templates = taskLibrary["generic"]
	}

	subject := subjectFromGoal(goal.Text)
	candidates := make([]CandidateTask, 0, count)
	for i := 0; i < count; i++ {
		tpl := templates[i%len(templates)]

		name := fmt.Sprintf(tpl.name, subject)
		if i >= len(templates) {
			// Cycling through the pool; keep names unique within the call.
			name = fmt.Sprintf("%s (part %d)", name, i/len(templates)+1)
		}

		candidates = append(candidates, CandidateTask{
			Name:              name,
			Description:       fmt.Sprintf(tpl.description, subject),
			Type:              tpl.taskType,
			EstimatedDuration: tpl.duration,
			Deliverable:       fmt.Sprintf(tpl.deliverable, subject),
			FirstAction:       tpl.firstAction,
			SuccessValidation: tpl.successValidation,
		})
	}

	return candidates, nil
}

// subjectFromGoal trims the goal text into a short subject usable inside
// template sentences.
func subjectFromGoal(text string) string {
	s := strings.TrimSpace(text)
	for _, prefix := range []string{"learn to ", "learn ", "become a ", "become ", "get better at ", "master "} {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			s = s[len(prefix):]
			break
		}
	}
	if s == "" {
		return "the goal"
	}
	return s
}

// branchLibrary holds per-domain phase blueprints. Durations are unscaled
// fractions; the sequencer applies complexity and preference scaling.
var branchLibrary = map[string][]branchTemplate{
	DomainProgramming: {
		{"Environment and Core Syntax: %s", "Set up a working toolchain and write small programs covering the core syntax needed for %s", "foundation", 0.2, 2, "Tooling and syntax fluency", []string{"install toolchain", "write starter programs", "read reference docs"}},
		{"Guided Projects: %s", "Build small guided projects that apply core concepts toward %s", "practice", 0.3, 4, "Applying concepts in working code", []string{"build guided projects", "debug failing code", "write tests"}},
		{"Independent Build: %s", "Design and ship an independent project demonstrating %s", "building", 0.3, 6, "Shipping an independent project", []string{"design project scope", "implement features", "deploy and document"}},
		{"Depth and Mastery: %s", "Optimize, refactor, and extend work on %s to production quality", "mastery", 0.2, 8, "Production-quality depth", []string{"profile and optimize", "code review practice", "contribute to open source"}},
	},
	DomainMusic: {
		{"Technique Foundations: %s", "Drill posture, tone production, and basic technique for %s", "foundation", 0.25, 2, "Clean fundamental technique", []string{"daily technique drills", "metronome practice", "posture checks"}},
		{"Repertoire Building: %s", "Play progressively harder pieces toward %s", "practice", 0.35, 5, "Expanding playable repertoire", []string{"play graded pieces", "slow practice", "record and review"}},
		{"Performance Readiness: %s", "Prepare and perform pieces publicly for %s", "mastery", 0.25, 7, "Stage-ready performance", []string{"full run-throughs", "perform for others", "analyze recordings"}},
	},
	DomainFitness: {
		{"Baseline and Form: %s", "Establish a movement baseline and drill safe form for %s", "foundation", 0.25, 2, "Safe, consistent movement patterns", []string{"baseline testing", "form drills", "mobility work"}},
		{"Progressive Training: %s", "Run a progressive program building capacity for %s", "practice", 0.4, 5, "Progressive overload", []string{"follow training blocks", "log sessions", "deload weeks"}},
		{"Peak and Test: %s", "Peak, test, and consolidate results for %s", "mastery", 0.2, 7, "Testing peak capacity", []string{"peak week", "test day", "recovery protocol"}},
	},
	DomainGeneric: {
		{"Foundation: %s", "Build the core skills and setup needed to make progress on %s", "foundation", 0.2, 2, "Core skill building", []string{"set up tools", "core skill drills", "find reference material"}},
		{"Applied Practice: %s", "Apply core skills in structured practice toward %s", "practice", 0.3, 4, "Structured application", []string{"structured practice sessions", "feedback loops", "track progress"}},
		{"Real Projects: %s", "Produce real, shareable output demonstrating %s", "building", 0.3, 6, "Producing shareable output", []string{"scope a project", "produce output", "share for feedback"}},
		{"Refinement: %s", "Refine weak areas and consolidate gains on %s", "mastery", 0.2, 8, "Targeted refinement", []string{"identify weak areas", "targeted drills", "consolidation"}},
	},
}

// taskLibrary holds per-phase task blueprints. Every name leads with a
// strong action verb so template output passes the specificity gate.
var taskLibrary = map[string][]taskTemplate{
	"foundation": {
		{"Configure a working setup for %s", "Install and configure every tool needed to work on %s daily", types.TaskTypeBuild, 45, "A working environment for %s, verified end to end", "Open the official install guide and follow the first section", "Complete one end-to-end dry run without errors"},
		{"Build a vocabulary map for %s", "Collect and organize the twenty most load-bearing concepts behind %s", types.TaskTypeResearch, 60, "A one-page concept map covering %s", "List ten concepts you have already seen mentioned", "Explain each concept in one sentence without notes"},
		{"Create solutions for three starter exercises in %s", "Work through three small graded exercises that touch the core mechanics of %s", types.TaskTypePractice, 90, "Three finished exercises with notes on %s", "Pick the first exercise from your chosen resource and start it", "All three exercises finished and checked against solutions"},
		{"Analyze one worked example of %s", "Take one complete worked example of %s apart and annotate every step", types.TaskTypeAnalysis, 60, "An annotated walkthrough of one example of %s", "Choose a worked example slightly above your current level", "Reproduce the example from your annotations alone"},
	},
	"research": {
		{"Analyze three approaches to %s", "Identify and compare three distinct approaches practitioners use for %s", types.TaskTypeResearch, 75, "A written comparison of three approaches to %s", "Search for two recent practitioner write-ups on the topic", "Comparison names concrete tradeoffs for each approach"},
		{"Analyze expert work in %s", "Break down two pieces of expert-level work in %s and annotate reusable patterns", types.TaskTypeAnalysis, 90, "A pattern list extracted from expert work on %s", "Pick two expert examples recommended by the community", "At least five patterns written down with source references"},
		{"Write a drill plan for %s", "Design a two-week drill sequence targeting your weakest area in %s", types.TaskTypeStudy, 45, "A dated two-week drill plan for %s", "List your three weakest sub-skills from recent practice", "Plan has a concrete activity for every scheduled day"},
	},
	"practice": {
		{"Design and run a timed drill block for %s", "Run a focused, timed drill session on the current weak spots in %s", types.TaskTypePractice, 60, "A logged drill session with scores for %s", "Set a 25-minute timer and start the first drill", "Session log shows completion times and error counts"},
		{"Build a small rep project for %s", "Build one small self-contained piece of work that exercises %s", types.TaskTypeBuild, 120, "One finished rep project demonstrating %s", "Write a three-line scope statement before starting", "Project works and is saved where you can show it"},
		{"Test yourself on %s without references", "Work one full exercise in %s from memory, then check against references", types.TaskTypePractice, 60, "A self-test result sheet for %s", "Close all references and set up one exercise", "Score recorded and gaps listed for the next session"},
		{"Analyze your last three attempts at %s", "Review your three most recent practice outputs for %s and list recurring faults", types.TaskTypeAnalysis, 45, "A fault list from three recent attempts at %s", "Line up the three most recent outputs side by side", "Top three recurring faults identified with a fix for each"},
	},
	"building": {
		{"Design the scope for a real project in %s", "Write a concrete, bounded project scope that demonstrates %s", types.TaskTypeAnalysis, 60, "A one-page project scope for %s", "Write down the single outcome the project must prove", "Scope fits on one page and names a deliverable and deadline"},
		{"Build the first working slice of %s", "Implement the smallest end-to-end slice of your project for %s", types.TaskTypeBuild, 180, "A working first slice of the %s project", "Create the project skeleton and commit it", "The slice runs end to end in front of another person"},
		{"Deploy and document the %s project", "Finish, publish, and document your project demonstrating %s", types.TaskTypeBuild, 120, "A published project with documentation for %s", "Write the README introduction first", "Project is publicly accessible with working instructions"},
	},
	"mastery": {
		{"Optimize your weakest area in %s", "Pick your single weakest measurable area in %s and improve it with targeted work", types.TaskTypePractice, 90, "Before/after measurements for one weak area of %s", "Measure current performance on the weak area", "Measured improvement documented against the baseline"},
		{"Write a beginner explanation of one concept from %s", "Write or record an explanation of one hard concept from %s for a beginner", types.TaskTypeBuild, 75, "A published explanation of one concept from %s", "Pick the concept that took you longest to understand", "A beginner follows your explanation without extra help"},
		{"Analyze the gap to professional %s", "Compare your current output in %s against professional-grade work and list the gaps", types.TaskTypeAnalysis, 60, "A gap analysis against professional work in %s", "Collect two professional examples to compare against", "Gap list is ranked with a next action for the top item"},
	},
	"generic": {
		{"Create a concrete, reviewable artifact for %s", "Produce one concrete, reviewable piece of work advancing %s", types.TaskTypeBuild, 90, "One reviewable artifact advancing %s", "Decide what single artifact this session will produce", "Artifact exists and a reviewer could evaluate it"},
		{"Design and complete a focused session on %s", "Run one distraction-free session working directly on %s with a defined target", types.TaskTypePractice, 60, "A session log with outcomes for %s", "Write the session target in one sentence and start a timer", "Session target met and logged with evidence"},
		{"Analyze progress and set the next milestone for %s", "Review all work so far on %s and define the next measurable milestone", types.TaskTypeAnalysis, 45, "A written milestone definition for %s", "Re-read your last three session logs", "Milestone has a number and a date attached"},
	},
}

// Ensure TemplateGenerator implements Generator at compile time
var _ Generator = (*TemplateGenerator)(nil)
