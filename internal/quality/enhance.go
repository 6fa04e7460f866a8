package quality

import (
	"strings"
	"unicode"

	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
)

// phraseReplacements rewrites each critical generic phrase into concrete,
// outcome-oriented language. Ordered longest-first so compound phrases are
// rewritten before their substrings. No replacement value may itself
// contain a generic phrase - that is what keeps enhancement idempotent.
var phraseReplacements = []struct {
	phrase      string
	replacement string
}{
	{"learn about", "build practical skills in"},
	{"fundamentals", "core techniques"},
	{"introduction", "first working session"},
	{"understand", "get hands-on with"},
	{"research", "map out"},
	{"overview", "working map"},
	{"explore", "test-drive"},
	{"basics", "core techniques"},
	{"study", "drill"},
}

// Domain-keyed synthesis templates for the structural fields. The %s slot
// receives the goal subject.
var deliverableTemplates = map[string]string{
	content.DomainProgramming: "A working code sample for %s, committed and runnable",
	content.DomainMusic:       "A recorded take of your work on %s that you can replay and critique",
	content.DomainFitness:     "A logged session sheet for %s with measured numbers",
	content.DomainLanguage:    "A recorded conversation or written passage in %s",
	content.DomainBusiness:    "A concrete business artifact for %s a stakeholder could act on",
	content.DomainCreative:    "A finished draft or piece advancing %s",
	content.DomainPhotography: "An edited set of photos shot for %s",
	content.DomainGeneric:     "A concrete, reviewable artifact produced while working on %s",
}

var firstActionTemplates = map[string]string{
	content.DomainProgramming: "Open your editor, create a new working file, and write the first ten lines",
	content.DomainMusic:       "Set up your instrument, start a recording, and play the first passage",
	content.DomainFitness:     "Put on training gear and complete the warm-up protocol",
	content.DomainLanguage:    "Open your study deck and speak the first five phrases aloud",
	content.DomainBusiness:    "Open a blank document and write the single question this session answers",
	content.DomainCreative:    "Set a 25-minute timer and produce the first rough version without editing",
	content.DomainPhotography: "Pick up the camera, set exposure for the current light, and take the first frame",
	content.DomainGeneric:     "Set a 25-minute timer and complete the first concrete step",
}

var successValidationTemplates = map[string]string{
	content.DomainProgramming: "The code runs end to end and another person can execute it from your instructions",
	content.DomainMusic:       "The recording plays back without stumbles at the target tempo",
	content.DomainFitness:     "The session log shows the prescribed sets completed with recorded numbers",
	content.DomainLanguage:    "A speaker of the language confirms they understood you without repetition",
	content.DomainBusiness:    "A stakeholder can make a decision using only the artifact you produced",
	content.DomainCreative:    "The piece is complete enough to show someone for specific feedback",
	content.DomainPhotography: "The edited set is exported and reviewable side by side with your reference shots",
	content.DomainGeneric:     "You can demonstrate the result to someone else and answer questions about it",
}

// Enhancer rewrites tasks with critical specificity findings into concrete
// phrasing using domain-keyed templates. Enhancement is idempotent:
// validating an enhanced task re-triggers none of the critical findings
// that were fixed.
type Enhancer struct{}

// NewEnhancer creates a new Enhancer.
func NewEnhancer() *Enhancer {
	return &Enhancer{}
}

// Enhance returns a new task with every critical issue addressed. Warnings
// pass through unmodified. The input task is never mutated.
func (e *Enhancer) Enhance(task *plan.Task, goal plan.Goal, issues []Issue) *plan.Task {
	enhanced := task.Clone()
	domain := goal.DomainArchetype
	if _, ok := deliverableTemplates[domain]; !ok {
		domain = content.DomainGeneric
	}
	subject := goalSubject(goal)

	for _, issue := range issues {
		if issue.Severity != SeverityCritical {
			continue
		}

		switch issue.Pattern {
		case PatternGenericPhrase:
			enhanced.Name = scrubGenericPhrases(enhanced.Name)
			enhanced.Description = scrubGenericPhrases(enhanced.Description)

		case PatternMissingDeliverable:
			enhanced.Deliverable = fill(deliverableTemplates[domain], subject)

		case PatternMissingFirstAction:
			enhanced.FirstAction = fill(firstActionTemplates[domain], subject)

		case PatternMissingValidation:
			enhanced.SuccessValidation = fill(successValidationTemplates[domain], subject)
		}
	}

	return enhanced
}

// scrubGenericPhrases rewrites every generic phrase occurrence,
// case-insensitively, preserving leading capitalization of the result.
func scrubGenericPhrases(text string) string {
	result := text
	for _, r := range phraseReplacements {
		result = replaceFold(result, r.phrase, r.replacement)
	}
	return capitalizeFirst(result)
}

// replaceFold replaces all case-insensitive occurrences of old with repl.
func replaceFold(s, old, repl string) string {
	lower := strings.ToLower(s)
	oldLower := strings.ToLower(old)

	var b strings.Builder
	for {
		idx := strings.Index(lower, oldLower)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString(repl)
		s = s[idx+len(old):]
		lower = lower[idx+len(old):]
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// goalSubject trims the goal text into a short subject usable inside
// synthesized sentences.
func goalSubject(goal plan.Goal) string {
	s := strings.TrimSpace(goal.Text)
	if s == "" {
		return "this goal"
	}
	return s
}

func fill(template, subject string) string {
	if strings.Contains(template, "%s") {
		return strings.ReplaceAll(template, "%s", subject)
	}
	return template
}
