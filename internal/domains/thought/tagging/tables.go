package tagging

// categories is the fixed classification table. Keywords must be lower-case.
// Matching is plain substring containment, so short keywords also fire inside
// longer words ("cat" inside "catastrophe").
var categories = []category{
	{
		label: "food",
		keywords: []string{
			"pizza", "burger", "pasta", "sushi", "coffee", "cake", "cookie",
			"chocolate", "breakfast", "lunch", "dinner", "food", "bread",
			"fruit", "salad", "taco", "snack", "restaurant", "ice cream",
			"delicious", "recipe", "cook",
		},
		emoji: []rune{'🍕', '🍔', '🍟', '🌮', '🍣', '🍩', '🍰', '☕', '🥗', '🍪'},
	},
	{
		label: "programming",
		keywords: []string{
			"code", "coding", "program", "javascript", "typescript", "python",
			"golang", "react", "debug", "bug", "developer", "software",
			"computer", "database", "github", "frontend", "backend", "deploy",
		},
		emoji: []rune{'💻', '⌨', '🖥', '🐛'},
	},
	{
		label: "work",
		keywords: []string{
			"work", "job", "office", "meeting", "boss", "deadline", "project",
			"career", "colleague", "salary", "interview", "coworker",
		},
		emoji: []rune{'💼', '📊', '📈', '🏢'},
	},
	{
		label: "home",
		keywords: []string{
			"home", "house", "family", "kitchen", "garden", "apartment",
			"couch", "cat", "dog", "pet", "cozy",
		},
		emoji: []rune{'🏠', '🏡', '🛋', '🐱', '🐶'},
	},
	{
		label: "health",
		keywords: []string{
			"health", "gym", "workout", "yoga", "exercise", "doctor", "sleep",
			"fitness", "meditation", "walk", "medicine", "jog",
		},
		emoji: []rune{'💪', '🏃', '🧘', '🏋', '💊', '🩺'},
	},
	{
		label: "weather",
		keywords: []string{
			"weather", "sunny", "sunshine", "rain", "snow", "cloud", "storm",
			"wind", "summer", "winter", "spring", "autumn", "cold",
		},
		emoji: []rune{'☀', '🌧', '❄', '⛈', '🌈', '☁', '🌤'},
	},
	{
		label: "emotions",
		keywords: []string{
			"happy", "sad", "love", "joy", "grateful", "excited", "angry",
			"anxious", "lonely", "proud", "smile", "cry", "laugh", "feel",
			"calm",
		},
		emoji: []rune{'😀', '😊', '😢', '😍', '❤', '😡', '🥰', '😂'},
	},
	{
		label: "travel",
		keywords: []string{
			"travel", "trip", "vacation", "holiday", "flight", "beach",
			"mountain", "airport", "hotel", "adventure", "explore", "passport",
			"journey",
		},
		emoji: []rune{'✈', '🌍', '🏖', '🗺', '🧳', '🏔'},
	},
	{
		label: "entertainment",
		keywords: []string{
			"movie", "film", "music", "song", "concert", "game", "netflix",
			"series", "party", "dance", "podcast",
		},
		emoji: []rune{'🎬', '🎵', '🎮', '🎉', '📺', '🎸'},
	},
	{
		label: "learning",
		keywords: []string{
			"learn", "study", "school", "course", "book", "reading", "exam",
			"university", "teacher", "lesson", "homework", "knowledge",
		},
		emoji: []rune{'📚', '🎓', '✏', '📖', '🧠'},
	},
}
