package postgres

import "github.com/tippspiel-app/tippspiel/internal/domain/team"

type teamTableModel struct {
	ID         int64  `db:"id"`
	ExternalID int64  `db:"external_id"`
	Name       string `db:"name"`
	ShortName  string `db:"short_name"`
	IconURL    string `db:"icon_url"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Name:       m.Name,
		ShortName:  m.ShortName,
		IconURL:    m.IconURL,
	}
}

type teamInsertModel struct {
	ExternalID int64  `db:"external_id"`
	Name       string `db:"name"`
	ShortName  string `db:"short_name"`
	IconURL    string `db:"icon_url"`
}
