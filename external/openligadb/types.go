package openligadb

// Wire records as served by the OpenLigaDB API. Every field is optional on
// the wire; extraction decides which ones are required.

type Group struct {
	GroupID      *int64 `json:"groupID"`
	GroupName    string `json:"groupName"`
	GroupOrderID *int   `json:"groupOrderID"`
}

type MatchRecord struct {
	MatchID         *int64        `json:"matchID"`
	MatchDateTime   string        `json:"matchDateTime"`
	LeagueName      string        `json:"leagueName"`
	Group           *Group        `json:"group"`
	Team1           *TeamRecord   `json:"team1"`
	Team2           *TeamRecord   `json:"team2"`
	MatchIsFinished *bool         `json:"matchIsFinished"`
	MatchResults    []MatchResult `json:"matchResults"`
	Goals           []Goal        `json:"goals"`
}

type TeamRecord struct {
	TeamID      *int64 `json:"teamId"`
	TeamName    string `json:"teamName"`
	ShortName   string `json:"shortName"`
	TeamIconURL string `json:"teamIconUrl"`
}

type MatchResult struct {
	ResultID      *int64 `json:"resultID"`
	ResultName    string `json:"resultName"`
	PointsTeam1   *int   `json:"pointsTeam1"`
	PointsTeam2   *int   `json:"pointsTeam2"`
	ResultOrderID *int   `json:"resultOrderID"`
}

type Goal struct {
	GoalID      *int64 `json:"goalID"`
	ScoreTeam1  *int   `json:"scoreTeam1"`
	ScoreTeam2  *int   `json:"scoreTeam2"`
	MatchMinute *int   `json:"matchMinute"`
}
