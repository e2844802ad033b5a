package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qb "github.com/tippspiel-app/tippspiel/internal/platform/querybuilder"
)

func TestSeasonScopedQueriesRenderValidSQL(t *testing.T) {
	t.Parallel()

	tipsBySeason, args, err := qb.Select("tips.*").From("tips").
		Join(tipsSeasonJoin).
		Where(qb.Eq("matchdays.season_id", int64(7))).
		OrderBy("tips.id").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT tips.* FROM tips "+
			"JOIN matches ON matches.id = tips.match_id "+
			"JOIN matchdays ON matchdays.id = matches.matchday_id "+
			"WHERE matchdays.season_id = $1 ORDER BY tips.id",
		tipsBySeason)
	assert.Equal(t, []any{int64(7)}, args)

	resultsBySeason, args, err := qb.Select("match_results.*").From("match_results").
		Join("JOIN matches ON matches.id = match_results.match_id").
		Join("JOIN matchdays ON matchdays.id = matches.matchday_id").
		Where(qb.Eq("matchdays.season_id", int64(7))).
		OrderBy("match_results.match_id").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT match_results.* FROM match_results "+
			"JOIN matches ON matches.id = match_results.match_id "+
			"JOIN matchdays ON matchdays.id = matches.matchday_id "+
			"WHERE matchdays.season_id = $1 ORDER BY match_results.match_id",
		resultsBySeason)
	assert.Equal(t, []any{int64(7)}, args)

	bonusBySeason, args, err := qb.Select("bonus_tips.*").From("bonus_tips").
		Join("JOIN matchdays ON matchdays.id = bonus_tips.matchday_id").
		Where(qb.Eq("matchdays.season_id", int64(7))).
		OrderBy("bonus_tips.id").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT bonus_tips.* FROM bonus_tips "+
			"JOIN matchdays ON matchdays.id = bonus_tips.matchday_id "+
			"WHERE matchdays.season_id = $1 ORDER BY bonus_tips.id",
		bonusBySeason)
	assert.Equal(t, []any{int64(7)}, args)
}
