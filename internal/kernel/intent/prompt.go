package intent

import (
	"strings"
)

// buildPrompt embeds the scene and the available action ids into an
// instruction asking for a single JSON object.
func buildPrompt(text string, scene Scene, actionIDs []string) string {
	var b strings.Builder
	b.WriteString("You convert a player's utterance in a text adventure into one action.\n\n")

	b.WriteString("Current location: ")
	if scene.Location.Name != "" {
		b.WriteString(scene.Location.Name)
	} else {
		b.WriteString("unknown")
	}
	b.WriteString("\n")

	b.WriteString("Exits:")
	if len(scene.Exits) == 0 {
		b.WriteString(" none")
	}
	for _, exit := range scene.Exits {
		b.WriteString(" ")
		b.WriteString(exit.Name)
		b.WriteString(" (")
		b.WriteString(exit.ID)
		b.WriteString(")")
	}
	b.WriteString("\n")

	b.WriteString("Visible entities:")
	if len(scene.Visible) == 0 {
		b.WriteString(" none")
	}
	for _, entity := range scene.Visible {
		b.WriteString(" ")
		b.WriteString(entity.Name)
		b.WriteString(" [")
		b.WriteString(entity.Type)
		b.WriteString("] (")
		b.WriteString(entity.ID)
		b.WriteString(")")
	}
	b.WriteString("\n\n")

	b.WriteString("Available actions: ")
	b.WriteString(strings.Join(actionIDs, ", "))
	b.WriteString("\n\n")

	b.WriteString("Player said: ")
	b.WriteString(text)
	b.WriteString("\n\n")

	b.WriteString(`Respond with exactly one JSON object: {"action_id": "<one of the available actions>", "params": {"target": "<entity id>", "target_name": "<entity name>"}, "narrative": "<second-person sentence>"}. Omit params you cannot fill.`)
	return b.String()
}
