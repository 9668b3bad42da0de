package model

const (
	// Message limits, counted in characters after trimming
	DefaultMinMessageLength = 5
	DefaultMaxMessageLength = 140

	// Pagination
	DefaultPage      = 1
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	// Trending
	DefaultTrendingLimit = 20
)
