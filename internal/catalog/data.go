package catalog

import "time"

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

var teams = map[string]Team{
	// Premier League
	"MUN": {ID: "MUN", Name: "Manchester United", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/360.png"},
	"MCI": {ID: "MCI", Name: "Manchester City", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/382.png"},
	"LIV": {ID: "LIV", Name: "Liverpool", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/364.png"},
	"ARS": {ID: "ARS", Name: "Arsenal", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/359.png"},
	"CHE": {ID: "CHE", Name: "Chelsea", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/363.png"},
	"TOT": {ID: "TOT", Name: "Tottenham Hotspur", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/367.png"},

	// La Liga
	"FCB": {ID: "FCB", Name: "FC Barcelona", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/83.png"},
	"RMA": {ID: "RMA", Name: "Real Madrid", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/86.png"},
	"ATM": {ID: "ATM", Name: "Atlético Madrid", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/1068.png"},
	"SEV": {ID: "SEV", Name: "Sevilla FC", Logo: "https://a.espncdn.com/i/teamlogos/soccer/500/94.png"},
}

var mockLeagues = []League{
	{ID: "PL", Name: "Premier League", Country: "England", Logo: "https://a.espncdn.com/i/leaguelogos/soccer/500/23.png"},
	{ID: "LL", Name: "La Liga", Country: "Spain", Logo: "https://a.espncdn.com/i/leaguelogos/soccer/500/15.png"},
}

var mockMatches = map[string][]Match{
	"PL": {
		{ID: "PLM1", LeagueID: "PL", Date: mustTime("2024-09-21T14:00:00Z"), Status: MatchUpcoming, HomeTeam: teams["MUN"], AwayTeam: teams["LIV"], Odds: Odds{HomeWin: 2.50, Draw: 3.40, AwayWin: 2.80}},
		{ID: "PLM2", LeagueID: "PL", Date: mustTime("2024-09-21T16:30:00Z"), Status: MatchUpcoming, HomeTeam: teams["ARS"], AwayTeam: teams["TOT"], Odds: Odds{HomeWin: 1.90, Draw: 3.60, AwayWin: 4.00}},
		{ID: "PLM3", LeagueID: "PL", Date: mustTime("2024-09-20T19:00:00Z"), Status: MatchLive, HomeTeam: teams["MCI"], AwayTeam: teams["CHE"], Score: &Score{Home: 1, Away: 1}, Time: "72", Odds: Odds{HomeWin: 1.50, Draw: 2.20, AwayWin: 5.50}},
		{ID: "PLM4", LeagueID: "PL", Date: mustTime("2024-09-15T19:00:00Z"), Status: MatchFinished, HomeTeam: teams["LIV"], AwayTeam: teams["ARS"], Score: &Score{Home: 3, Away: 1}, Time: "FT", Odds: Odds{HomeWin: 2.10, Draw: 3.50, AwayWin: 3.20}},
	},
	"LL": {
		{ID: "LLM1", LeagueID: "LL", Date: mustTime("2024-09-22T19:00:00Z"), Status: MatchUpcoming, HomeTeam: teams["RMA"], AwayTeam: teams["FCB"], Odds: Odds{HomeWin: 2.20, Draw: 3.50, AwayWin: 3.10}},
		{ID: "LLM2", LeagueID: "LL", Date: mustTime("2024-09-22T17:00:00Z"), Status: MatchUpcoming, HomeTeam: teams["ATM"], AwayTeam: teams["SEV"], Odds: Odds{HomeWin: 1.80, Draw: 3.30, AwayWin: 4.50}},
		{ID: "LLM3", LeagueID: "LL", Date: mustTime("2024-09-16T19:00:00Z"), Status: MatchFinished, HomeTeam: teams["FCB"], AwayTeam: teams["ATM"], Score: &Score{Home: 2, Away: 2}, Time: "FT", Odds: Odds{HomeWin: 1.90, Draw: 3.60, AwayWin: 4.00}},
	},
}

var mockStandings = map[string][]Standing{
	"PL": {
		{Rank: 1, Team: teams["MCI"], Played: 4, Win: 4, Draw: 0, Loss: 0, Points: 12, GoalDifference: 10},
		{Rank: 2, Team: teams["LIV"], Played: 4, Win: 3, Draw: 1, Loss: 0, Points: 10, GoalDifference: 7},
		{Rank: 3, Team: teams["ARS"], Played: 4, Win: 3, Draw: 0, Loss: 1, Points: 9, GoalDifference: 5},
		{Rank: 4, Team: teams["TOT"], Played: 4, Win: 2, Draw: 2, Loss: 0, Points: 8, GoalDifference: 4},
		{Rank: 5, Team: teams["CHE"], Played: 4, Win: 2, Draw: 1, Loss: 1, Points: 7, GoalDifference: 2},
		{Rank: 6, Team: teams["MUN"], Played: 4, Win: 2, Draw: 0, Loss: 2, Points: 6, GoalDifference: 0},
	},
	"LL": {
		{Rank: 1, Team: teams["RMA"], Played: 3, Win: 3, Draw: 0, Loss: 0, Points: 9, GoalDifference: 8},
		{Rank: 2, Team: teams["FCB"], Played: 3, Win: 2, Draw: 1, Loss: 0, Points: 7, GoalDifference: 5},
		{Rank: 3, Team: teams["ATM"], Played: 3, Win: 2, Draw: 0, Loss: 1, Points: 6, GoalDifference: 3},
		{Rank: 4, Team: teams["SEV"], Played: 3, Win: 1, Draw: 1, Loss: 1, Points: 4, GoalDifference: 1},
	},
}
