// Package voting implements the coin-budgeted voting engine.
//
// A group runs at most one active week at a time. Members submit catalog
// tracks into the active week and spend up to models.MaxCoins coins on
// them; standings are derived from the votes on every read.
//
// The components are small and composable:
//
//   - WeekManager starts and closes weeks.
//   - TrackRegistry attaches tracks to an active week.
//   - VoteLedger records coin allocations within the budget.
//   - RankingEngine orders a week's tracks by coins received.
//   - Session ties them together behind membership and role checks.
//
// Every check-then-write step is delegated to the store, which performs it
// atomically.
package voting
