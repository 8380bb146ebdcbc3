package gemini

import (
	"fmt"
	"strings"

	"crate/internal/config"
)

// SystemPrompt builds the classification instruction from the configured
// genre vocabulary. Keep prompt text centralized here so it is easy to tweak
// without hunting through call sites.
func SystemPrompt(genres []config.Category) string {
	var builder strings.Builder
	builder.WriteString(`You are a music expert and track classifier.
You will be given a list of tracks in the format "Artist - Title".

Assign each track to 1, or at MOST 2, relevant categories.
Respond ONLY with a JSON array of objects, one per track, like this:
[{"track": "Artist - Title", "categories": ["Category 1", "Category 2"]}]

The available categories are:

`)
	for i, genre := range genres {
		builder.WriteString(fmt.Sprintf("%d. %q", i+1, genre.Name))
		if genre.Hint != "" {
			builder.WriteString(" - ")
			builder.WriteString(genre.Hint)
		}
		builder.WriteByte('\n')
	}
	builder.WriteString(`
RULES:
- Every track goes in 1 or at most 2 categories.
- Use the category names exactly as written above.
- The "track" value must be the exact input string.
- Respond only with the requested JSON, no extra text.`)
	return builder.String()
}

// UserPrompt builds the numbered track list for one batch.
func UserPrompt(labels []string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Classify the following %d tracks. Respond with a JSON array of objects, "+
		"each with the keys \"track\" (the exact track string) and \"categories\" (array of strings).\n\n", len(labels))
	for i, label := range labels {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, label)
	}
	return builder.String()
}
