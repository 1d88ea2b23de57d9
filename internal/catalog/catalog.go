package catalog

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

var (
	ErrLeagueNotFound = errors.New("league not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrMarketInvalid  = errors.New("market must be 1, X or 2")
	ErrMatchFinished  = errors.New("match already finished")
)

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type League struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
}

type MatchStatus string

const (
	MatchUpcoming MatchStatus = "UPCOMING"
	MatchLive     MatchStatus = "LIVE"
	MatchFinished MatchStatus = "FINISHED"
)

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Odds 1X2 em formato decimal
type Odds struct {
	HomeWin float64 `json:"homeWin"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"awayWin"`
}

type Match struct {
	ID       string      `json:"id"`
	LeagueID string      `json:"leagueId"`
	Date     time.Time   `json:"date"`
	Status   MatchStatus `json:"status"`
	HomeTeam Team        `json:"homeTeam"`
	AwayTeam Team        `json:"awayTeam"`
	Score    *Score      `json:"score,omitempty"`
	Time     string      `json:"time,omitempty"` // ex: "HT", "FT", "68"
	Odds     Odds        `json:"odds"`
}

type Standing struct {
	Rank           int  `json:"rank"`
	Team           Team `json:"team"`
	Played         int  `json:"played"`
	Win            int  `json:"win"`
	Draw           int  `json:"draw"`
	Loss           int  `json:"loss"`
	Points         int  `json:"points"`
	GoalDifference int  `json:"goalDifference"`
}

// OddsSource devolve a cotação corrente de um mercado. ok=false usa a odd estática.
type OddsSource interface {
	CurrentOdd(ctx context.Context, matchID string, market wallet.Market) (odd float64, ok bool, err error)
}

// Catalog é somente leitura: ligas, partidas, classificação e montagem de seleções
type Catalog struct {
	leagues   []League
	matches   map[string][]Match
	standings map[string][]Standing
	byID      map[string]Match
	live      OddsSource
}

// New monta o catálogo com os dados fixos; live pode ser nil
func New(live OddsSource) *Catalog {
	c := &Catalog{
		leagues:   mockLeagues,
		matches:   mockMatches,
		standings: mockStandings,
		byID:      make(map[string]Match),
		live:      live,
	}
	for _, ms := range c.matches {
		for _, m := range ms {
			c.byID[m.ID] = m
		}
	}
	return c
}

func (c *Catalog) Leagues() []League { return append([]League(nil), c.leagues...) }

// Matches retorna as partidas da liga ordenadas por data
func (c *Catalog) Matches(leagueID string) ([]Match, error) {
	ms, ok := c.matches[leagueID]
	if !ok {
		return nil, ErrLeagueNotFound
	}
	out := append([]Match(nil), ms...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (c *Catalog) Standings(leagueID string) ([]Standing, error) {
	st, ok := c.standings[leagueID]
	if !ok {
		return nil, ErrLeagueNotFound
	}
	return append([]Standing(nil), st...), nil
}

func (c *Catalog) Match(id string) (Match, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// SelectionFor monta a seleção que vai para o bet slip. O rótulo é o nome do
// time (1 ou 2) ou "Draw" (X).
func (c *Catalog) SelectionFor(ctx context.Context, matchID string, market wallet.Market) (wallet.Selection, error) {
	m, ok := c.byID[matchID]
	if !ok {
		return wallet.Selection{}, ErrMatchNotFound
	}
	if !market.Valid() {
		return wallet.Selection{}, ErrMarketInvalid
	}
	if m.Status == MatchFinished {
		return wallet.Selection{}, ErrMatchFinished
	}

	var label string
	var odd float64
	switch market {
	case wallet.MarketHome:
		label, odd = m.HomeTeam.Name, m.Odds.HomeWin
	case wallet.MarketDraw:
		label, odd = "Draw", m.Odds.Draw
	case wallet.MarketAway:
		label, odd = m.AwayTeam.Name, m.Odds.AwayWin
	}

	if c.live != nil {
		// cache indisponível não impede a aposta: fica a odd estática
		if cur, ok, err := c.live.CurrentOdd(ctx, matchID, market); err == nil && ok && cur > 1 {
			odd = cur
		}
	}

	return wallet.Selection{
		MatchID:          m.ID,
		MatchDescription: m.HomeTeam.Name + " vs " + m.AwayTeam.Name,
		MarketLabel:      label,
		Market:           market,
		Odds:             odd,
	}, nil
}
