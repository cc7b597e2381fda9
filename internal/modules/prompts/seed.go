package prompts

import "github.com/vidsum/core/internal/models"

// builtInPrompts are seeded into the sync partition at first run. They are
// never deletable; users may add their own templates alongside.
func builtInPrompts() []models.PromptTemplate {
	return []models.PromptTemplate{
		{
			ID:   "educational",
			Name: "Educational Content",
			Prompt: `Summarize this educational video with the following structure:

1. **Main Topic**: What is this video teaching?
2. **Key Concepts**: List 3-5 main concepts explained
3. **Important Details**: Critical facts, formulas, or definitions
4. **Practical Applications**: How can this knowledge be applied?
5. **Summary**: 2-3 sentence overview

Be concise but comprehensive.`,
			IsBuiltIn:        true,
			MappedCategories: []string{"27"},
		},
		{
			ID:   "tutorial",
			Name: "Tutorial/How-To",
			Prompt: `Extract a step-by-step guide from this tutorial video:

1. **Goal**: What will the viewer learn to do?
2. **Prerequisites**: What's needed before starting?
3. **Steps**: Numbered list of actions to take
4. **Tips**: Any pro tips or warnings mentioned
5. **Final Result**: What should be achieved

Format steps clearly for easy following.`,
			IsBuiltIn:        true,
			MappedCategories: []string{"26", "28"},
		},
		{
			ID:   "podcast",
			Name: "Podcast/Interview",
			Prompt: `Summarize this podcast/interview:

1. **Participants**: Who is speaking?
2. **Main Topics**: Key subjects discussed
3. **Notable Quotes**: 2-3 memorable statements
4. **Key Insights**: Main takeaways from the conversation
5. **Conclusion**: How did it wrap up?

Capture the essence of the discussion.`,
			IsBuiltIn:        true,
			MappedCategories: []string{"22"},
		},
		{
			ID:   "news",
			Name: "News/Current Events",
			Prompt: `Analyze this news video:

1. **Headline**: What's the main story?
2. **Key Facts**: Who, what, when, where, why
3. **Sources**: Who provided information?
4. **Context**: Background information mentioned
5. **Impact**: Why does this matter?

Be factual and objective.`,
			IsBuiltIn:        true,
			MappedCategories: []string{"25"},
		},
		{
			ID:   "entertainment",
			Name: "Entertainment",
			Prompt: `Summarize this entertainment video:

1. **Content Type**: What kind of video is this?
2. **Main Points**: Key moments or highlights
3. **Notable Elements**: Interesting or memorable aspects
4. **Overall Tone**: What's the vibe?
5. **Quick Take**: 1-2 sentence summary

Keep it fun and engaging.`,
			IsBuiltIn:        true,
			MappedCategories: []string{"1", "10", "20", "23", "24"},
		},
		{
			ID:   "technical",
			Name: "Technical/Conference Talk",
			Prompt: `Summarize this technical presentation:

1. **Topic**: What technology/concept is covered?
2. **Problem Statement**: What problem is being addressed?
3. **Solution/Approach**: How is it being solved?
4. **Key Technical Details**: Important implementation details
5. **Takeaways**: Main lessons for developers/practitioners

Focus on actionable insights.`,
			IsBuiltIn:        true,
			MappedCategories: []string{"28"},
		},
		{
			ID:   "general",
			Name: "General Summary",
			Prompt: `Provide a comprehensive summary of this video:

1. **Overview**: What is this video about?
2. **Key Points**: Main ideas presented (bullet points)
3. **Details**: Important specifics mentioned
4. **Conclusion**: How does it end?

Keep it concise but informative.`,
			IsBuiltIn:        true,
			MappedCategories: []string{},
		},
	}
}
