package events

import "time"

// Evento emitido pelo simulador de liquidação quando a aposta sai de PENDING
type BetSettled struct {
	SessionID   string    `json:"sessionId"`
	BetID       string    `json:"betId"`
	MatchID     string    `json:"matchId"`
	Status      string    `json:"status"` // "WON" | "LOST"
	StakeUnits  int64     `json:"stakeUnits"`
	PayoutUnits int64     `json:"payoutUnits"`
	Balance     int64     `json:"balance"`
	Ts          time.Time `json:"ts"`
}
