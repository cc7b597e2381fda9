package video

// youtubeCategories maps the YouTube Data API category ids to display names.
var youtubeCategories = map[string]string{
	"1":  "Film & Animation",
	"2":  "Autos & Vehicles",
	"10": "Music",
	"15": "Pets & Animals",
	"17": "Sports",
	"18": "Short Movies",
	"19": "Travel & Events",
	"20": "Gaming",
	"21": "Videoblogging",
	"22": "People & Blogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News & Politics",
	"26": "Howto & Style",
	"27": "Education",
	"28": "Science & Technology",
	"29": "Nonprofits & Activism",
}

// CategoryName resolves a category id to its display name.
func CategoryName(categoryID string) string {
	if name, ok := youtubeCategories[categoryID]; ok {
		return name
	}
	return "Unknown"
}

// CategoryToPrompt maps platform category ids to built-in prompt template
// ids. Unmapped categories fall back to the configured default prompt.
var CategoryToPrompt = map[string]string{
	"1":  "entertainment",
	"10": "entertainment",
	"17": "news",
	"20": "entertainment",
	"22": "podcast",
	"23": "entertainment",
	"24": "entertainment",
	"25": "news",
	"26": "tutorial",
	"27": "educational",
	"28": "technical",
}
