package wallet

import "time"

type EventKind string

const (
	EventBetPlaced   EventKind = "bet_placed"
	EventBetSettled  EventKind = "bet_settled"
	EventTransaction EventKind = "transaction"
	EventReset       EventKind = "reset"
)

// Event descreve uma mudança já aplicada ao estado do engine.
// Balance é o saldo logo após a mudança.
type Event struct {
	SessionID   string       `json:"sessionId"`
	Kind        EventKind    `json:"kind"`
	Bet         *PlacedBet   `json:"bet,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Balance     int64        `json:"balance"`
	At          time.Time    `json:"at"`
}

// Notifier recebe os eventos na ordem em que as operações terminam.
// É chamado com o lock do engine seguro: não pode bloquear nem chamar o engine.
type Notifier func(Event)
