package dto

type OpenSessionRequest struct {
	SessionID string `json:"sessionId,omitempty"` // reabre a sessão a partir do snapshot
}

type AddSelectionRequest struct {
	MatchID string `json:"matchId"`
	Market  string `json:"market"` // "1", "X", "2"
}

type UpdateWagerRequest struct {
	Wager int64 `json:"wager"`
}

type TopUpRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"` // ex: "M-Pesa"
}

type WithdrawRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
	Phone  string `json:"phone,omitempty"`
}
