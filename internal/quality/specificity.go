// Package quality implements the content specificity gate: a deterministic,
// pattern-based validator that flags vague task content coming out of the
// generator boundary, plus an enhancer that rewrites critical findings into
// concrete, actionable phrasing. Findings never fail the planning path -
// critical findings trigger auto-enhancement and warnings are logged only.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Issue is a single specificity finding on one task.
type Issue struct {
	// Severity is critical (auto-enhanced) or warning (logged only).
	Severity Severity `json:"severity"`

	// Pattern names the rule that fired, e.g. "generic_phrase" or
	// "missing_deliverable".
	Pattern string `json:"pattern"`

	// Message describes the issue for a human reader.
	Message string `json:"message"`
}

// Pattern names emitted by the validator.
const (
	PatternGenericPhrase        = "generic_phrase"
	PatternVagueVerb            = "vague_verb"
	PatternVagueQuantifier      = "vague_quantifier"
	PatternSubjectiveCompletion = "subjective_completion"
	PatternVagueImprovement     = "vague_improvement"
	PatternMissingDeliverable   = "missing_deliverable"
	PatternMissingFirstAction   = "missing_first_action"
	PatternMissingValidation    = "missing_success_validation"
	PatternWeakActionVerb       = "weak_action_verb"
)

// Minimum lengths for the structural completeness checks.
const (
	minDeliverableLen       = 10
	minFirstActionLen       = 15
	minSuccessValidationLen = 20
)

// genericPhrases are critical anywhere in name+description: they describe
// consuming content instead of producing a result.
var genericPhrases = []string{
	"learn about", "understand", "study", "research", "explore",
	"basics", "fundamentals", "introduction", "overview",
}

// vagueVerbs raise warnings: they gesture at activity without committing
// to an outcome.
var vagueVerbs = []string{
	"practice", "work on", "focus on", "review", "try", "begin",
}

// strongVerbs is the fixed set a task name must draw from.
var strongVerbs = []string{
	"build", "create", "write", "design", "implement", "configure",
	"test", "analyze", "optimize", "develop", "shoot", "play",
	"code", "deploy",
}

var (
	vagueQuantifierRe      = regexp.MustCompile(`\b(several|some|a few|various|multiple)\b`)
	subjectiveCompletionRe = regexp.MustCompile(`\b(comfortable|confident|familiar)\b`)
	vagueImprovementRe     = regexp.MustCompile(`\b(better|improved)\b.*\b(understanding|knowledge)\b`)
	strongVerbRe           = regexp.MustCompile(`\b(` + strings.Join(strongVerbs, "|") + `)\b`)
)

// Report aggregates a validation run over a task list. Score is tracked per
// run for observability: passed tasks (zero criticals) over total tasks.
type Report struct {
	TotalTasks  int             `json:"total_tasks"`
	PassedCount int             `json:"passed_count"`
	Score       float64         `json:"score"`
	TaskIssues  map[int][]Issue `json:"task_issues,omitempty"`
}

// Validator is the deterministic specificity gate. Stateless and safe for
// concurrent use.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate inspects one task and returns every finding. The goal is
// accepted for parity with the enhancement path, which uses it for
// domain-keyed substitutions; the checks themselves are goal-independent.
func (v *Validator) Validate(task *plan.Task, _ plan.Goal) []Issue {
	issues := []Issue{}

	nameAndDesc := strings.ToLower(task.Name + " " + task.Description)
	fullText := nameAndDesc + " " + strings.ToLower(task.SuccessValidation)

	// Critical generic phrases anywhere in name+description.
	for _, phrase := range genericPhrases {
		if strings.Contains(nameAndDesc, phrase) {
			issues = append(issues, Issue{
				Severity: SeverityCritical,
				Pattern:  PatternGenericPhrase,
				Message:  fmt.Sprintf("task uses generic phrase %q; describe a concrete outcome instead", phrase),
			})
		}
	}

	// Warning vague verbs.
	for _, verb := range vagueVerbs {
		if strings.Contains(nameAndDesc, verb) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Pattern:  PatternVagueVerb,
				Message:  fmt.Sprintf("task uses vague verb %q; commit to a measurable outcome", verb),
			})
		}
	}

	// Subtler regex classes, warnings.
	if m := vagueQuantifierRe.FindString(fullText); m != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Pattern:  PatternVagueQuantifier,
			Message:  fmt.Sprintf("vague quantifier %q; use an exact count", m),
		})
	}
	if m := subjectiveCompletionRe.FindString(fullText); m != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Pattern:  PatternSubjectiveCompletion,
			Message:  fmt.Sprintf("subjective completion criterion %q; use an observable check", m),
		})
	}
	if vagueImprovementRe.MatchString(fullText) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Pattern:  PatternVagueImprovement,
			Message:  "vague improvement language; state what measurably changes",
		})
	}

	// Structural completeness, critical.
	if len(strings.TrimSpace(task.Deliverable)) < minDeliverableLen {
		issues = append(issues, Issue{
			Severity: SeverityCritical,
			Pattern:  PatternMissingDeliverable,
			Message:  "deliverable is missing or too thin to review",
		})
	}
	if len(strings.TrimSpace(task.FirstAction)) < minFirstActionLen {
		issues = append(issues, Issue{
			Severity: SeverityCritical,
			Pattern:  PatternMissingFirstAction,
			Message:  "first action is missing or not concrete enough to start from",
		})
	}
	if len(strings.TrimSpace(task.SuccessValidation)) < minSuccessValidationLen {
		issues = append(issues, Issue{
			Severity: SeverityCritical,
			Pattern:  PatternMissingValidation,
			Message:  "success validation is missing or not checkable",
		})
	}

	// Weak action verb: the name must lead with doing, not drifting.
	if !strongVerbRe.MatchString(strings.ToLower(task.Name)) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Pattern:  PatternWeakActionVerb,
			Message:  "task name contains no strong action verb",
		})
	}

	return issues
}

// ValidateAll runs Validate over a task list and computes the run score.
// TaskIssues is keyed by task index in the input slice.
func (v *Validator) ValidateAll(tasks []*plan.Task, goal plan.Goal) Report {
	report := Report{
		TotalTasks: len(tasks),
		TaskIssues: make(map[int][]Issue),
	}

	for i, task := range tasks {
		issues := v.Validate(task, goal)
		if len(issues) > 0 {
			report.TaskIssues[i] = issues
		}
		if !HasCritical(issues) {
			report.PassedCount++
		}
	}

	if report.TotalTasks > 0 {
		report.Score = float64(report.PassedCount) / float64(report.TotalTasks) * 100
	}
	return report
}

// HasCritical returns true if any issue in the list is critical.
func HasCritical(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// CriticalOnly filters the list down to critical issues.
func CriticalOnly(issues []Issue) []Issue {
	criticals := []Issue{}
	for _, issue := range issues {
		if issue.Severity == SeverityCritical {
			criticals = append(criticals, issue)
		}
	}
	return criticals
}
