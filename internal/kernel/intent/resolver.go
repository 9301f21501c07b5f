package intent

import (
	"context"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/hollowmere/internal/kernel/linker"
	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

const (
	// UnknownActionID is the terminal-fallback action id.
	UnknownActionID = "UNKNOWN"

	// confidencePattern is reported for deterministic keyword matches.
	confidencePattern = 0.7
	// confidenceLLM is reported for completion-service resolutions.
	confidenceLLM = 0.9
	// confidenceUnknown is reported for the terminal fallback.
	confidenceUnknown = 0.0
)

// tracer spans the LLM fallback path, the only call with meaningful latency.
var tracer = otel.Tracer("github.com/louisbranch/hollowmere/internal/kernel/intent")

// Intent is a resolved action invocation candidate.
type Intent struct {
	ActionID   string         `json:"action_id"`
	Params     map[string]any `json:"params"`
	Narrative  string         `json:"narrative"`
	Confidence float64        `json:"confidence"`
}

// Scene is the player-visible context a parse runs against.
type Scene struct {
	Location storage.Entity
	Exits    []storage.Entity
	Visible  []storage.Entity
}

// Resolver parses text into intents using patterns, the entity linker, and
// a completion-service fallback.
type Resolver struct {
	registry   *ontology.Registry
	patterns   *ontology.PatternTable
	linker     *linker.Linker
	completion storage.CompletionService
	model      string
}

// New creates a resolver. The completion service may be nil, in which case
// unmatched text resolves straight to the terminal fallback.
func New(registry *ontology.Registry, patterns *ontology.PatternTable, entityLinker *linker.Linker, completion storage.CompletionService, model string) *Resolver {
	if entityLinker == nil {
		entityLinker = linker.New(nil)
	}
	return &Resolver{
		registry:   registry,
		patterns:   patterns,
		linker:     entityLinker,
		completion: completion,
		model:      model,
	}
}

// Parse resolves text into an intent. It never returns an error: pattern
// misses fall through to the completion service, and completion failures
// fall through to the terminal UNKNOWN intent.
func (r *Resolver) Parse(ctx context.Context, text string, scene Scene) Intent {
	if parsed, ok := r.parsePatterns(text, scene); ok {
		return parsed
	}
	if parsed, ok := r.parseCompletion(ctx, text, scene); ok {
		return parsed
	}
	return Intent{
		ActionID:   UnknownActionID,
		Params:     map[string]any{},
		Narrative:  "could not understand: " + text,
		Confidence: confidenceUnknown,
	}
}

// parsePatterns scans registered patterns in order. A pattern whose target
// fails to link does not abort the parse; scanning continues with the
// remaining keywords and patterns.
func (r *Resolver) parsePatterns(text string, scene Scene) (Intent, bool) {
	lowered := strings.ToLower(text)
	for _, pattern := range r.patterns.Patterns() {
		for _, keyword := range pattern.Keywords {
			index := strings.Index(lowered, strings.ToLower(keyword))
			if index < 0 {
				continue
			}
			if !pattern.RequiresTarget {
				return Intent{
					ActionID:   pattern.ActionID,
					Params:     map[string]any{},
					Narrative:  "you " + strings.TrimSpace(lowered),
					Confidence: confidencePattern,
				}, true
			}

			mention := stripParticles(text[index+len(keyword):])
			entity := r.linker.Link(mention, sceneCandidates(scene, pattern.TargetType), pattern.TargetType)
			if entity == nil {
				continue
			}
			return Intent{
				ActionID: pattern.ActionID,
				Params: map[string]any{
					"target":      entity.ID,
					"target_name": entity.Name,
				},
				Narrative:  "you " + strings.TrimSpace(strings.ToLower(keyword)) + " " + entity.Name,
				Confidence: confidencePattern,
			}, true
		}
	}
	return Intent{}, false
}

func (r *Resolver) parseCompletion(ctx context.Context, text string, scene Scene) (Intent, bool) {
	if r.completion == nil {
		return Intent{}, false
	}

	ctx, span := tracer.Start(ctx, "intent.completion")
	defer span.End()

	prompt := buildPrompt(text, scene, r.registry.ActionIDs())
	output, err := r.completion.Complete(ctx, prompt, r.model)
	if err != nil {
		log.Printf("intent completion failed: %v", err)
		return Intent{}, false
	}

	extracted, ok := extractIntent(output)
	if !ok {
		log.Printf("intent completion returned no parseable JSON")
		return Intent{}, false
	}
	if _, known := r.registry.Lookup(extracted.ActionID); !known {
		log.Printf("intent completion proposed unknown action %q", extracted.ActionID)
		return Intent{}, false
	}
	span.SetAttributes(attribute.String("intent.action_id", extracted.ActionID))

	if extracted.Params == nil {
		extracted.Params = map[string]any{}
	}
	if strings.TrimSpace(extracted.Narrative) == "" {
		extracted.Narrative = "you " + strings.TrimSpace(strings.ToLower(text))
	}
	extracted.Confidence = confidenceLLM
	return extracted, true
}

// sceneCandidates builds the type-partitioned candidate set for a target
// type: exits for locations, visible entities for npcs and items, both for
// anything else.
func sceneCandidates(scene Scene, targetType string) []storage.Entity {
	switch targetType {
	case "location":
		return scene.Exits
	case "npc", "item":
		return scene.Visible
	default:
		combined := make([]storage.Entity, 0, len(scene.Exits)+len(scene.Visible))
		combined = append(combined, scene.Exits...)
		combined = append(combined, scene.Visible...)
		return combined
	}
}

// particles are connective words stripped from the front of a target
// mention, e.g. "attack at the bandit" -> "the bandit".
var particles = map[string]bool{
	"at": true, "to": true, "on": true, "with": true,
	"toward": true, "towards": true, "into": true,
}

func stripParticles(mention string) string {
	words := strings.Fields(strings.TrimSpace(mention))
	for len(words) > 0 && particles[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}
