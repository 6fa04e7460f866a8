package content

import (
	"context"
	"strings"
)

// Domain archetypes recognized by the built-in classifier and template
// library. Unrecognized goals fall back to DomainGeneric.
const (
	DomainProgramming = "programming"
	DomainMusic       = "music"
	DomainFitness     = "fitness"
	DomainLanguage    = "language"
	DomainBusiness    = "business"
	DomainCreative    = "creative"
	DomainPhotography = "photography"
	DomainGeneric     = "generic"
)

// DomainClassifier maps a goal statement to a domain archetype.
// The planning engine never depends on a specific implementation; keyword
// tables, embedding similarity, and LLM-backed classifiers are all valid
// behind this interface.
type DomainClassifier interface {
	// Classify returns the domain archetype for the goal text.
	// Implementations return DomainGeneric when no domain matches.
	Classify(ctx context.Context, goalText string) (string, error)
}

// KeywordClassifier implements DomainClassifier with keyword tables.
// It is deterministic and requires no external services, making it the
// default classifier.
type KeywordClassifier struct {
	keywords map[string][]string
}

// NewKeywordClassifier creates a KeywordClassifier with the built-in
// keyword tables.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		keywords: map[string][]string{
			DomainProgramming: {
				"code", "coding", "programming", "software", "developer",
				"python", "javascript", "golang", "rust", "app", "website",
				"backend", "frontend", "api", "database",
			},
			DomainMusic: {
				"guitar", "piano", "drums", "violin", "sing", "singing",
				"music", "song", "instrument", "chord", "melody",
			},
			DomainFitness: {
				"fitness", "workout", "run", "running", "marathon", "gym",
				"strength", "weight", "muscle", "yoga", "swim",
			},
			DomainLanguage: {
				"spanish", "french", "japanese", "german", "mandarin",
				"language", "fluent", "fluency", "vocabulary", "speak",
			},
			DomainBusiness: {
				"business", "startup", "revenue", "marketing", "sales",
				"customers", "freelance", "entrepreneur", "product",
			},
			DomainCreative: {
				"write", "writing", "novel", "story", "paint", "painting",
				"draw", "drawing", "design", "creative", "art",
			},
			DomainPhotography: {
				"photography", "photo", "camera", "portrait", "landscape",
				"lens", "shoot", "lightroom",
			},
		},
	}
}

// Classify scans the goal text for domain keywords and returns the domain
// with the most hits. Ties resolve to the first domain checked in a fixed
// order, keeping classification deterministic.
func (c *KeywordClassifier) Classify(_ context.Context, goalText string) (string, error) {
	text := strings.ToLower(goalText)

	// Fixed check order for deterministic tie-breaking.
	order := []string{
		DomainProgramming, DomainMusic, DomainFitness, DomainLanguage,
		DomainBusiness, DomainCreative, DomainPhotography,
	}

	best := DomainGeneric
	bestHits := 0
	for _, domain := range order {
		hits := 0
		for _, kw := range c.keywords[domain] {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = domain
			bestHits = hits
		}
	}

	return best, nil
}

// Ensure KeywordClassifier implements DomainClassifier at compile time
var _ DomainClassifier = (*KeywordClassifier)(nil)
