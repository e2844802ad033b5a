package tip

import "time"

// BonusMinuteMax bounds the predicted first-goal minute, inclusive.
const BonusMinuteMax = 130

// Tip is one user's score prediction for one match, unique per (user, match).
type Tip struct {
	ID                 int64
	UserID             int64
	MatchID            int64
	HomeGoalsPredicted int
	AwayGoalsPredicted int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BonusTip is one user's predicted minute of a matchday's first goal,
// unique per (user, matchday).
type BonusTip struct {
	ID                       int64
	UserID                   int64
	MatchdayID               int64
	FirstGoalMinutePredicted int
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
