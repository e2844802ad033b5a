package league

// League is a competition identified by a stable external shortcut, e.g. "bl1".
type League struct {
	ID       int64
	Shortcut string
	Name     string
}

// Season is one year of a league, unique per (league, year).
type Season struct {
	ID       int64
	LeagueID int64
	Year     int
}
