package wallet

import (
	"math"
	"time"
)

// Market representa o resultado apostável de uma partida (1 = casa, X = empate, 2 = fora)
type Market string

const (
	MarketHome Market = "1"
	MarketDraw Market = "X"
	MarketAway Market = "2"
)

// Valid indica se o mercado é um dos três resultados suportados
func (m Market) Valid() bool {
	return m == MarketHome || m == MarketDraw || m == MarketAway
}

// Selection é uma cotação fornecida pelo catálogo. Imutável depois de criada.
type Selection struct {
	MatchID          string  `json:"matchId"`
	MatchDescription string  `json:"matchDescription"`
	MarketLabel      string  `json:"marketLabel"` // ex: "Home Win", "Draw"
	Market           Market  `json:"market"`
	Odds             float64 `json:"odds"`
}

// BetSlipEntry é uma seleção ainda não apostada com o valor digitado pelo usuário
type BetSlipEntry struct {
	Selection Selection `json:"selection"`
	Wager     int64     `json:"wager"`
}

// PotentialPayout retorna wager × odds arredondado para a unidade, saturado
// em MaxInt64/MinInt64
func (b BetSlipEntry) PotentialPayout() int64 {
	if p, ok := payoutFor(b.Wager, b.Selection.Odds); ok {
		return p
	}
	if (b.Wager < 0) != (b.Selection.Odds < 0) {
		return math.MinInt64
	}
	return math.MaxInt64
}

type BetStatus string

const (
	StatusPending BetStatus = "PENDING"
	StatusWon     BetStatus = "WON"
	StatusLost    BetStatus = "LOST"
)

// Settled indica se o status é terminal
func (s BetStatus) Settled() bool { return s == StatusWon || s == StatusLost }

// PlacedBet é uma aposta debitada aguardando (ou já com) liquidação.
// Payout só é preenchido na transição PENDING -> WON/LOST.
type PlacedBet struct {
	ID        string    `json:"id"`
	Selection Selection `json:"selection"`
	Wager     int64     `json:"wager"`
	PlacedAt  time.Time `json:"placedDate"`
	Status    BetStatus `json:"status"`
	Payout    *int64    `json:"payout,omitempty"`
}

type TransactionType string

const (
	TxWager      TransactionType = "Wager"
	TxPayout     TransactionType = "Payout"
	TxTopUp      TransactionType = "Top-up"
	TxWithdrawal TransactionType = "Withdrawal"
)

// Transaction é uma linha do ledger. Amount é negativo para débitos.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

