package models

// MaxCoins is the number of coins each user may spend per group per week.
const MaxCoins = 3

// Vote is a single coin allocation. Votes are append-only.
type Vote struct {
	ID          string
	TrackID     string
	UserID      string
	GroupWeekID string

	// CoinsSpent is always positive; the public API casts 1 per vote.
	CoinsSpent int

	// VotedAt is the Unix timestamp of the cast.
	VotedAt int64
}

// Voter is one user's contribution to a track's standing.
type Voter struct {
	Profile    Profile
	CoinsSpent int
}

// Standing is a track with its derived vote count. Never stored.
type Standing struct {
	Track     Track
	VoteCount int
	Voters    []Voter
}

// Budget is a user's coin usage within one week.
type Budget struct {
	Spent     int
	Remaining int
}

// NewBudget derives the remaining coins from the spent total.
func NewBudget(spent int) Budget {
	remaining := MaxCoins - spent
	if remaining < 0 {
		remaining = 0
	}
	return Budget{Spent: spent, Remaining: remaining}
}
