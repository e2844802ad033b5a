package postgres

import (
	"time"

	"github.com/tippspiel-app/tippspiel/internal/domain/tip"
)

type tipTableModel struct {
	ID                 int64     `db:"id"`
	UserID             int64     `db:"user_id"`
	MatchID            int64     `db:"match_id"`
	HomeGoalsPredicted int       `db:"home_goals_predicted"`
	AwayGoalsPredicted int       `db:"away_goals_predicted"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (m tipTableModel) toDomain() tip.Tip {
	return tip.Tip{
		ID:                 m.ID,
		UserID:             m.UserID,
		MatchID:            m.MatchID,
		HomeGoalsPredicted: m.HomeGoalsPredicted,
		AwayGoalsPredicted: m.AwayGoalsPredicted,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type bonusTipTableModel struct {
	ID                       int64     `db:"id"`
	UserID                   int64     `db:"user_id"`
	MatchdayID               int64     `db:"matchday_id"`
	FirstGoalMinutePredicted int       `db:"first_goal_minute_predicted"`
	CreatedAt                time.Time `db:"created_at"`
	UpdatedAt                time.Time `db:"updated_at"`
}

func (m bonusTipTableModel) toDomain() tip.BonusTip {
	return tip.BonusTip{
		ID:                       m.ID,
		UserID:                   m.UserID,
		MatchdayID:               m.MatchdayID,
		FirstGoalMinutePredicted: m.FirstGoalMinutePredicted,
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
}
