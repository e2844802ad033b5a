package match

import "time"

// Match is one fixture of a matchday. ExternalID is the feed's match id and
// the idempotency key for upserts.
type Match struct {
	ID         int64
	ExternalID int64
	MatchdayID int64
	KickoffAt  time.Time
	HomeTeamID int64
	AwayTeamID int64
	IsFinished bool
}

// Result is the current score of a match as last reported by the feed.
// A row exists if and only if the feed reports a determinable score; whether
// the score is final is read off Match.IsFinished.
type Result struct {
	MatchID   int64
	HomeGoals int
	AwayGoals int
}
