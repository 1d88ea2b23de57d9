package events

import "time"

// WalletTransaction espelha uma linha do ledger da carteira virtual
type WalletTransaction struct {
	SessionID     string    `json:"session_id"`
	TransactionID string    `json:"transaction_id"`
	Type          string    `json:"type"` // Wager | Payout | Top-up | Withdrawal
	AmountUnits   int64     `json:"amount_units"`
	Description   string    `json:"description"`
	Balance       int64     `json:"balance"`
	Date          time.Time `json:"date"`
}
