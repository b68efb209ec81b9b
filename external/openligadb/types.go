package openligadb

type groupItem struct {
	GroupName    string `json:"groupName"`
	GroupOrderID int    `json:"groupOrderID"`
	GroupID      int    `json:"groupID"`
}

type teamItem struct {
	TeamID      int    `json:"teamId"`
	TeamName    string `json:"teamName"`
	ShortName   string `json:"shortName"`
	TeamIconURL string `json:"teamIconUrl"`
}

type matchResultItem struct {
	ResultID     int    `json:"resultID"`
	ResultName   string `json:"resultName"`
	PointsTeam1  int    `json:"pointsTeam1"`
	PointsTeam2  int    `json:"pointsTeam2"`
	ResultTypeID int    `json:"resultTypeID"`
}

type goalItem struct {
	GoalID         int    `json:"goalID"`
	ScoreTeam1     int    `json:"scoreTeam1"`
	ScoreTeam2     int    `json:"scoreTeam2"`
	MatchMinute    *int   `json:"matchMinute"`
	GoalGetterID   int    `json:"goalGetterID"`
	GoalGetterName string `json:"goalGetterName"`
	IsPenalty      bool   `json:"isPenalty"`
	IsOwnGoal      bool   `json:"isOwnGoal"`
	IsOvertime     bool   `json:"isOvertime"`
}

type matchItem struct {
	MatchID          int               `json:"matchID"`
	MatchDateTime    string            `json:"matchDateTime"`
	MatchDateTimeUTC string            `json:"matchDateTimeUTC"`
	TimeZoneID       string            `json:"timeZoneID"`
	LeagueShortcut   string            `json:"leagueShortcut"`
	LeagueSeason     int               `json:"leagueSeason"`
	Team1            teamItem          `json:"team1"`
	Team2            teamItem          `json:"team2"`
	MatchIsFinished  bool              `json:"matchIsFinished"`
	MatchResults     []matchResultItem `json:"matchResults"`
	Goals            []goalItem        `json:"goals"`
	Group            groupItem         `json:"group"`
}

type tableItem struct {
	TeamInfoID    int    `json:"teamInfoId"`
	TeamName      string `json:"teamName"`
	ShortName     string `json:"shortName"`
	TeamIconURL   string `json:"teamIconUrl"`
	Points        int    `json:"points"`
	OpponentGoals int    `json:"opponentGoals"`
	Goals         int    `json:"goals"`
	Matches       int    `json:"matches"`
	Won           int    `json:"won"`
	Lost          int    `json:"lost"`
	Draw          int    `json:"draw"`
	GoalDiff      int    `json:"goalDiff"`
}
