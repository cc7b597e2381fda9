package summarize

import "github.com/vidsum/core/internal/modules/video"

// ResolvePromptID maps a platform category id onto a built-in prompt
// id. Absent or unmapped categories fall back to the configured default
// prompt.
func ResolvePromptID(categoryID, defaultPromptID string) string {
	if categoryID != "" {
		if promptID, ok := video.CategoryToPrompt[categoryID]; ok {
			return promptID
		}
	}
	return defaultPromptID
}
