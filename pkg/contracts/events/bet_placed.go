package events

// Evento publicado quando uma seleção do bet slip vira aposta pendente
type BetPlaced struct {
	SessionID   string  `json:"session_id"`
	BetID       string  `json:"bet_id"`
	MatchID     string  `json:"match_id"`
	Description string  `json:"description"`
	Market      string  `json:"market"` // "1" | "X" | "2"
	Label       string  `json:"label"`
	StakeUnits  int64   `json:"stake_units"`
	OddValue    float64 `json:"odd_value"`
	Balance     int64   `json:"balance"`
	TsUnixMs    int64   `json:"ts_unix_ms"`
}
