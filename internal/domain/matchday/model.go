package matchday

import "time"

// Matchday is one round of a season sharing a tipping deadline.
//
// LastChangedAt holds the feed's change timestamp as of the last applied
// import; nil until the matchday has been smart-synced once. The first-goal
// fields are derived from the matches of this matchday and are nil while no
// goal has been reported.
type Matchday struct {
	ID         int64
	SeasonID   int64
	OrderID    int
	Name       string
	DeadlineAt time.Time

	LastChangedAt *time.Time

	FirstGoalAt      *time.Time
	FirstGoalMatchID *int64
	FirstGoalMinute  *int
}

// FirstGoal is the derived first-goal fact of a matchday.
type FirstGoal struct {
	At      *time.Time
	MatchID *int64
	Minute  *int
}

// IsOpenForTipping reports whether tips may still be placed or changed.
// The deadline itself is inclusive.
func (m Matchday) IsOpenForTipping(now time.Time) bool {
	return !now.After(m.DeadlineAt)
}

// FirstGoalFact returns the currently stored first-goal fact.
func (m Matchday) FirstGoalFact() FirstGoal {
	return FirstGoal{At: m.FirstGoalAt, MatchID: m.FirstGoalMatchID, Minute: m.FirstGoalMinute}
}

// Equal compares two first-goal facts field by field.
func (g FirstGoal) Equal(other FirstGoal) bool {
	return timePtrEqual(g.At, other.At) &&
		int64PtrEqual(g.MatchID, other.MatchID) &&
		intPtrEqual(g.Minute, other.Minute)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
