package postgres

import "github.com/tippspiel-app/tippspiel/internal/domain/league"

type leagueTableModel struct {
	ID       int64  `db:"id"`
	Shortcut string `db:"shortcut"`
	Name     string `db:"name"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{ID: m.ID, Shortcut: m.Shortcut, Name: m.Name}
}

type leagueInsertModel struct {
	Shortcut string `db:"shortcut"`
	Name     string `db:"name"`
}

type seasonTableModel struct {
	ID       int64 `db:"id"`
	LeagueID int64 `db:"league_id"`
	Year     int   `db:"year"`
}

func (m seasonTableModel) toDomain() league.Season {
	return league.Season{ID: m.ID, LeagueID: m.LeagueID, Year: m.Year}
}

type seasonInsertModel struct {
	LeagueID int64 `db:"league_id"`
	Year     int   `db:"year"`
}
