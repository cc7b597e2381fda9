package models

const (
	// Timeout bounds for a single summarization, in minutes.
	MinTimeoutMinutes = 1
	MaxTimeoutMinutes = 30

	DefaultTimeoutMinutes = 5
	DefaultPromptID       = "general"
	DefaultModel          = "gemini-2.0-flash"
)

// Settings is the single process-wide user configuration record.
// Read-modify-write with last-writer-wins; there is at most one human
// actor per profile so no optimistic locking is needed.
type Settings struct {
	GeminiAPIKey               string `json:"geminiApiKey"`
	YouTubeAPIKey              string `json:"youtubeApiKey"`
	Model                      string `json:"model"`
	DefaultPromptID            string `json:"defaultPromptId"`
	AutoDetectCategory         bool   `json:"autoDetectCategory"`
	StreamResponse             bool   `json:"streamResponse"`
	SummarizationTimeoutMinute int    `json:"summarizationTimeoutMinutes"`
	Theme                      string `json:"theme"` // light | dark | system
}

// DefaultSettings returns the hardcoded first-run settings.
func DefaultSettings() Settings {
	return Settings{
		Model:                      DefaultModel,
		DefaultPromptID:            DefaultPromptID,
		AutoDetectCategory:         true,
		StreamResponse:             true,
		SummarizationTimeoutMinute: DefaultTimeoutMinutes,
		Theme:                      "system",
	}
}

// ClampTimeout forces the timeout into its documented 1-30 minute range.
func (s *Settings) ClampTimeout() {
	if s.SummarizationTimeoutMinute < MinTimeoutMinutes {
		s.SummarizationTimeoutMinute = MinTimeoutMinutes
	}
	if s.SummarizationTimeoutMinute > MaxTimeoutMinutes {
		s.SummarizationTimeoutMinute = MaxTimeoutMinutes
	}
}
