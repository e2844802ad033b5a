package postgres

import (
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/matchday"
)

type matchdayTableModel struct {
	ID               int64      `db:"id"`
	SeasonID         int64      `db:"season_id"`
	OrderID          int        `db:"order_id"`
	Name             string     `db:"name"`
	DeadlineAt       time.Time  `db:"deadline_at"`
	LastChangedAt    *time.Time `db:"last_changed_at"`
	FirstGoalAt      *time.Time `db:"first_goal_at"`
	FirstGoalMatchID *int64     `db:"first_goal_match_id"`
	FirstGoalMinute  *int       `db:"first_goal_minute"`
}

func (m matchdayTableModel) toDomain() matchday.Matchday {
	return matchday.Matchday{
		ID:               m.ID,
		SeasonID:         m.SeasonID,
		OrderID:          m.OrderID,
		Name:             m.Name,
		DeadlineAt:       m.DeadlineAt,
		LastChangedAt:    m.LastChangedAt,
		FirstGoalAt:      m.FirstGoalAt,
		FirstGoalMatchID: m.FirstGoalMatchID,
		FirstGoalMinute:  m.FirstGoalMinute,
	}
}

type matchdayInsertModel struct {
	SeasonID   int64     `db:"season_id"`
	OrderID    int       `db:"order_id"`
	Name       string    `db:"name"`
	DeadlineAt time.Time `db:"deadline_at"`
}
